package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Sender submits a call transaction and returns its hash without waiting for it to be mined.
type Sender interface {
	Send(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error)

	// Default is the sender used when a call carries no caller override.
	Default() common.Address
}

// UnlockedSender relies on the node to sign: it uses eth_sendTransaction,
// so from must be an unlocked or impersonated account on that node.
type UnlockedSender struct {
	client      *client
	defaultFrom common.Address
}

// NewUnlockedSender creates a sender that delegates signing to the node.
func NewUnlockedSender(cl *client, defaultFrom common.Address) *UnlockedSender {
	return &UnlockedSender{client: cl, defaultFrom: defaultFrom}
}

type sendTxArgs struct {
	From common.Address  `json:"from"`
	To   *common.Address `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

func (s *UnlockedSender) Send(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	if err := s.client.pace(ctx); err != nil {
		return common.Hash{}, err
	}
	var hash common.Hash
	args := sendTxArgs{From: from, To: &to, Data: data}
	if err := s.client.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (s *UnlockedSender) Default() common.Address {
	return s.defaultFrom
}

// KeyedSender signs dynamic-fee transactions locally and sends them raw.
type KeyedSender struct {
	client  *client
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
}

// NewKeyedSender creates a sender that signs with key for chainID.
func NewKeyedSender(cl *client, key *ecdsa.PrivateKey, chainID *big.Int) *KeyedSender {
	return &KeyedSender{
		client:  cl,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}
}

func (s *KeyedSender) Send(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	if from != s.from {
		return common.Hash{}, fmt.Errorf("%w: want %s, signer is %s", outbound.ErrCallerMismatch, from.Hex(), s.from.Hex())
	}

	if err := s.client.pace(ctx); err != nil {
		return common.Hash{}, err
	}
	nonce, err := s.client.eth.PendingNonceAt(ctx, s.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetching nonce: %w", err)
	}

	if err := s.client.pace(ctx); err != nil {
		return common.Hash{}, err
	}
	gas, err := s.client.eth.EstimateGas(ctx, ethereum.CallMsg{From: s.from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimating gas: %w", err)
	}

	if err := s.client.pace(ctx); err != nil {
		return common.Hash{}, err
	}
	tip, err := s.client.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetching gas tip: %w", err)
	}

	if err := s.client.pace(ctx); err != nil {
		return common.Hash{}, err
	}
	head, err := s.client.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetching latest header: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}

	if err := s.client.pace(ctx); err != nil {
		return common.Hash{}, err
	}
	if err := s.client.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}

func (s *KeyedSender) Default() common.Address {
	return s.from
}
