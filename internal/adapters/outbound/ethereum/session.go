package ethereum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/pkg/blockchain/abis"
	"github.com/archon-research/stl/stl-lend/internal/pkg/retry"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Compile-time check that Session implements outbound.Session
var _ outbound.Session = (*Session)(nil)

// Session is a live JSON-RPC connection to one network.
type Session struct {
	network entity.Network
	client  *client
	sender  Sender
	config  Config
	logger  *slog.Logger
}

// ChainID returns the chain ID verified at connect time.
func (s *Session) ChainID() int64 {
	return s.network.ChainID
}

// Close releases the RPC connection.
func (s *Session) Close() {
	s.client.close()
}

// GetContractAt resolves a pool handle for the named contract interface at address.
func (s *Session) GetContractAt(_ context.Context, interfaceName, address string) (outbound.LendingPool, error) {
	contractABI, ok, err := abis.Lookup(interfaceName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", outbound.ErrUnknownContract, interfaceName)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", outbound.ErrInvalidAddress, address)
	}
	return &Pool{
		address: common.HexToAddress(address),
		abi:     contractABI,
		session: s,
	}, nil
}

// waitMined polls for the receipt of hash until it is found, the receipt
// timeout passes, or ctx ends.
func (s *Session) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.ReceiptTimeout)
	defer cancel()

	isPending := func(err error) bool {
		return errors.Is(err, ethereum.NotFound)
	}

	receipt, err := retry.Do(ctx, retry.PollConfig(s.config.ReceiptPollInterval), isPending, nil, func() (*types.Receipt, error) {
		if err := s.client.pace(ctx); err != nil {
			return nil, err
		}
		return s.client.eth.TransactionReceipt(ctx, hash)
	})
	if err != nil {
		return nil, fmt.Errorf("awaiting receipt for %s: %w", hash.Hex(), err)
	}
	return receipt, nil
}
