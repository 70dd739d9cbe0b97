package outbound

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrUnknownNetwork is returned when a network name has no registry entry.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrUnknownContract is returned when no ABI is registered for a contract interface name.
	ErrUnknownContract = errors.New("unknown contract interface")

	// ErrInvalidAddress is returned when a contract address is not a 20-byte hex address.
	ErrInvalidAddress = errors.New("invalid contract address")

	// ErrCallerMismatch is returned when a signing sender is asked to send from another address.
	ErrCallerMismatch = errors.New("caller override does not match signer")
)

// NetworkConnector opens sessions against named networks.
type NetworkConnector interface {
	// Connect establishes a session with the network registered under name.
	Connect(ctx context.Context, network string) (Session, error)
}

// Session is a live connection to one network.
type Session interface {
	// ChainID returns the chain ID verified at connect time.
	ChainID() int64

	// GetContractAt resolves a lending pool handle for the given contract interface name and address.
	GetContractAt(ctx context.Context, interfaceName, address string) (LendingPool, error)

	// Close releases the underlying connection.
	Close()
}

// LendingPool is a handle to a deployed lending pool contract.
// Each state-changing method submits one transaction and waits for it to be mined.
type LendingPool interface {
	// Borrow calls borrow(amount) with from set to caller.
	Borrow(ctx context.Context, amount *big.Int, caller common.Address) (*types.Receipt, error)

	// RequestWithdraw calls requestWithdraw(tokenId, amount) from the session's default caller.
	RequestWithdraw(ctx context.Context, tokenID, amount *big.Int) (*types.Receipt, error)
}
