package entity

import "time"

// PoolOperation names a state-changing call on a lending pool.
type PoolOperation string

const (
	OperationBorrow          PoolOperation = "borrow"
	OperationRequestWithdraw PoolOperation = "requestWithdraw"
)

// InvocationEvent records a pool call whose transaction has been mined.
type InvocationEvent struct {
	Operation   PoolOperation `json:"operation"`
	Network     string        `json:"network"`
	ChainID     int64         `json:"chainId"`
	Pool        string        `json:"pool"`
	TxHash      string        `json:"txHash"`
	BlockNumber uint64        `json:"blockNumber"`
	GasUsed     uint64        `json:"gasUsed"`
	SubmittedAt time.Time     `json:"submittedAt"`
}
