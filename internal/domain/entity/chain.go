// Package entity contains the core domain entities for the lending pool tooling.
// These entities represent the fundamental business objects and have no external dependencies.
package entity

import "fmt"

// DefaultNetwork is the network the pool invokers connect to when none is given.
const DefaultNetwork = "localhost"

// DefaultCallerAddress is the first funded account of a local development node.
// Borrows are sent from it unless configured otherwise.
const DefaultCallerAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

// Network represents a named blockchain network reachable over JSON-RPC.
type Network struct {
	Name    string
	ChainID int64
	RPCURL  string
}

// NewNetwork creates a new Network entity with validation.
func NewNetwork(name string, chainID int64, rpcURL string) (*Network, error) {
	n := &Network{
		Name:    name,
		ChainID: chainID,
		RPCURL:  rpcURL,
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Network) validate() error {
	if n.Name == "" {
		return fmt.Errorf("network name must not be empty")
	}
	if n.ChainID <= 0 {
		return fmt.Errorf("chainID must be positive, got %d", n.ChainID)
	}
	if n.RPCURL == "" {
		return fmt.Errorf("network %q has no rpc url", n.Name)
	}
	return nil
}

// ChainNameToID maps network names to their chain IDs.
var ChainNameToID = map[string]int64{
	"mainnet":   1,
	"sepolia":   11155111,
	"localhost": 31337,
	"hardhat":   31337,
}
