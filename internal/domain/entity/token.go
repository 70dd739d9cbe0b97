package entity

import (
	"fmt"
)

// Token represents a fungible asset identified by its contract address.
type Token struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol,omitempty"`
	Name     string `json:"name,omitempty"`
	Decimals int16  `json:"decimals"`
}

// NewToken creates a new Token entity with validation.
// Used for tokens loaded from storage or token-list files.
func NewToken(chainID int64, address, symbol string, decimals int16) (*Token, error) {
	t := &Token{
		ChainID:  chainID,
		Address:  address,
		Symbol:   symbol,
		Decimals: decimals,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// validate checks that all fields have valid values.
func (t *Token) validate() error {
	if t.ChainID <= 0 {
		return fmt.Errorf("chainID must be positive, got %d", t.ChainID)
	}
	if t.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if t.Decimals < 0 {
		return fmt.Errorf("decimals must be non-negative, got %d", t.Decimals)
	}
	return nil
}
