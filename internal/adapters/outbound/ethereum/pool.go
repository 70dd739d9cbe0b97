package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Compile-time check that Pool implements outbound.LendingPool
var _ outbound.LendingPool = (*Pool)(nil)

// Pool is a lending pool handle bound to a session.
type Pool struct {
	address common.Address
	abi     *abi.ABI
	session *Session
}

// Borrow submits borrow(amount) from caller and waits for the receipt.
func (p *Pool) Borrow(ctx context.Context, amount *big.Int, caller common.Address) (*types.Receipt, error) {
	return p.transact(ctx, caller, "borrow", amount)
}

// RequestWithdraw submits requestWithdraw(tokenId, amount) from the session sender and waits for the receipt.
func (p *Pool) RequestWithdraw(ctx context.Context, tokenID, amount *big.Int) (*types.Receipt, error) {
	return p.transact(ctx, p.session.sender.Default(), "requestWithdraw", tokenID, amount)
}

func (p *Pool) transact(ctx context.Context, from common.Address, method string, args ...any) (*types.Receipt, error) {
	data, err := p.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	hash, err := p.session.sender.Send(ctx, from, p.address, data)
	if err != nil {
		return nil, fmt.Errorf("sending %s to %s: %w", method, p.address.Hex(), err)
	}
	p.session.logger.Debug("transaction submitted", "method", method, "pool", p.address.Hex(), "tx", hash.Hex())

	return p.session.waitMined(ctx, hash)
}
