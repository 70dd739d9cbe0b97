package ethereum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

// client bundles the raw and typed RPC clients behind one rate limiter.
type client struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	limiter *rate.Limiter
}

// pace blocks until the limiter admits one more request.
func (c *client) pace(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (c *client) close() {
	c.rpc.Close()
}
