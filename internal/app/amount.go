package app

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseAmount parses a uint256 given in decimal or 0x-prefixed hex.
// name is used in error messages.
func ParseAmount(name, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%s is required", name)
	}

	digits, base := s, 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits, base = s[2:], 16
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid %s %q: not a base-%d integer", name, s, base)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q: must not be negative", name, s)
	}
	if v.BitLen() > 256 {
		return nil, fmt.Errorf("invalid %s %q: exceeds uint256", name, s)
	}
	return v, nil
}
