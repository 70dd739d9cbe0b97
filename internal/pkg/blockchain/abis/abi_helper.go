package abis

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func ParseABI(abiJSON string) (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// LendingPoolInterface is the contract interface name pool handles are resolved under.
const LendingPoolInterface = "LendingPool"

var registry = map[string]string{
	LendingPoolInterface: lendingPoolABIJSON,
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*abi.ABI{}
)

// Lookup returns the parsed ABI registered under the contract interface name.
// The second return is false when the name is not registered.
func Lookup(interfaceName string) (*abi.ABI, bool, error) {
	raw, ok := registry[interfaceName]
	if !ok {
		return nil, false, nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if parsed, ok := cache[interfaceName]; ok {
		return parsed, true, nil
	}
	parsed, err := ParseABI(raw)
	if err != nil {
		return nil, true, fmt.Errorf("parsing %s ABI: %w", interfaceName, err)
	}
	cache[interfaceName] = parsed
	return parsed, true, nil
}
