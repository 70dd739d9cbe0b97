package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// MockConnector implements outbound.NetworkConnector for testing.
type MockConnector struct {
	mu        sync.Mutex
	ConnectFn func(ctx context.Context, network string) (outbound.Session, error)
	Networks  []string
}

func (m *MockConnector) Connect(ctx context.Context, network string) (outbound.Session, error) {
	m.mu.Lock()
	m.Networks = append(m.Networks, network)
	m.mu.Unlock()
	if m.ConnectFn != nil {
		return m.ConnectFn(ctx, network)
	}
	return nil, errors.New("Connect not mocked")
}

// CallCount returns the number of Connect calls.
func (m *MockConnector) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Networks)
}

// ResolveCall records one GetContractAt call.
type ResolveCall struct {
	InterfaceName string
	Address       string
}

// MockSession implements outbound.Session for testing.
type MockSession struct {
	mu            sync.Mutex
	ID            int64
	GetContractFn func(ctx context.Context, interfaceName, address string) (outbound.LendingPool, error)
	Resolves      []ResolveCall
	Closed        int
}

func (m *MockSession) ChainID() int64 {
	return m.ID
}

func (m *MockSession) GetContractAt(ctx context.Context, interfaceName, address string) (outbound.LendingPool, error) {
	m.mu.Lock()
	m.Resolves = append(m.Resolves, ResolveCall{InterfaceName: interfaceName, Address: address})
	m.mu.Unlock()
	if m.GetContractFn != nil {
		return m.GetContractFn(ctx, interfaceName, address)
	}
	return nil, errors.New("GetContractAt not mocked")
}

func (m *MockSession) Close() {
	m.mu.Lock()
	m.Closed++
	m.mu.Unlock()
}

// BorrowCall records one Borrow call.
type BorrowCall struct {
	Amount *big.Int
	Caller common.Address
}

// WithdrawCall records one RequestWithdraw call.
type WithdrawCall struct {
	TokenID *big.Int
	Amount  *big.Int
}

// MockLendingPool implements outbound.LendingPool for testing.
// Without a hook, calls succeed with a receipt for block 1.
type MockLendingPool struct {
	mu         sync.Mutex
	BorrowFn   func(ctx context.Context, amount *big.Int, caller common.Address) (*types.Receipt, error)
	WithdrawFn func(ctx context.Context, tokenID, amount *big.Int) (*types.Receipt, error)
	Borrows    []BorrowCall
	Withdraws  []WithdrawCall
}

func (m *MockLendingPool) Borrow(ctx context.Context, amount *big.Int, caller common.Address) (*types.Receipt, error) {
	m.mu.Lock()
	m.Borrows = append(m.Borrows, BorrowCall{Amount: amount, Caller: caller})
	m.mu.Unlock()
	if m.BorrowFn != nil {
		return m.BorrowFn(ctx, amount, caller)
	}
	return minedReceipt(), nil
}

func (m *MockLendingPool) RequestWithdraw(ctx context.Context, tokenID, amount *big.Int) (*types.Receipt, error) {
	m.mu.Lock()
	m.Withdraws = append(m.Withdraws, WithdrawCall{TokenID: tokenID, Amount: amount})
	m.mu.Unlock()
	if m.WithdrawFn != nil {
		return m.WithdrawFn(ctx, tokenID, amount)
	}
	return minedReceipt(), nil
}

func minedReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.HexToHash("0x01"),
		BlockNumber: big.NewInt(1),
		GasUsed:     21000,
	}
}

// NewMockNetwork wires a connector, session and pool together so that
// Connect returns the session and GetContractAt returns the pool.
func NewMockNetwork(chainID int64) (*MockConnector, *MockSession, *MockLendingPool) {
	pool := &MockLendingPool{}
	session := &MockSession{ID: chainID}
	session.GetContractFn = func(context.Context, string, string) (outbound.LendingPool, error) {
		return pool, nil
	}
	connector := &MockConnector{
		ConnectFn: func(context.Context, string) (outbound.Session, error) {
			return session, nil
		},
	}
	return connector, session, pool
}
