// Package ethereum implements the network and lending pool ports over Ethereum JSON-RPC.
//
// A Connector resolves a network name to an endpoint, dials it and checks the chain ID.
// The resulting Session resolves contract handles by interface name, and each handle
// submits one transaction per call and waits for its receipt.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Compile-time check that Connector implements outbound.NetworkConnector
var _ outbound.NetworkConnector = (*Connector)(nil)

// Connector dials JSON-RPC endpoints for named networks.
type Connector struct {
	config Config
	logger *slog.Logger
}

// NewConnector creates a new Connector.
func NewConnector(config Config) *Connector {
	config.applyDefaults()
	return &Connector{
		config: config,
		logger: config.Logger.With("component", "ethereum-connector"),
	}
}

// Connect dials the network registered under name and verifies its chain ID.
func (c *Connector) Connect(ctx context.Context, network string) (outbound.Session, error) {
	n, ok := c.config.Networks.Lookup(network)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", outbound.ErrUnknownNetwork, network, c.config.Networks.Names())
	}

	rpcClient, err := rpc.DialContext(ctx, n.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", network, err)
	}

	cl := &client{
		rpc:     rpcClient,
		eth:     ethclient.NewClient(rpcClient),
		limiter: rate.NewLimiter(c.config.RateLimit, c.config.RateBurst),
	}

	if err := cl.pace(ctx); err != nil {
		cl.close()
		return nil, err
	}
	chainID, err := cl.eth.ChainID(ctx)
	if err != nil {
		cl.close()
		return nil, fmt.Errorf("fetching chain id from %s: %w", network, err)
	}
	if chainID.Int64() != n.ChainID {
		cl.close()
		return nil, fmt.Errorf("network %s reports chain id %s, expected %d", network, chainID, n.ChainID)
	}

	var sender Sender
	if c.config.PrivateKey != nil {
		sender = NewKeyedSender(cl, c.config.PrivateKey, chainID)
	} else {
		sender = NewUnlockedSender(cl, c.config.DefaultFrom)
	}

	c.logger.Debug("connected",
		"network", network,
		"chainID", n.ChainID,
		"sender", sender.Default().Hex(),
		"signing", c.config.PrivateKey != nil)

	return &Session{
		network: n,
		client:  cl,
		sender:  sender,
		config:  c.config,
		logger:  c.logger.With("network", network),
	}, nil
}

// ParsePrivateKey decodes a hex-encoded secp256k1 key, with or without 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return key, nil
}
