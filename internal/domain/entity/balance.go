package entity

import "math/big"

// BalanceTable maps a token address to an amount in base units.
type BalanceTable map[string]*big.Int

// ZeroBalances builds a balance table with one zero entry per distinct token address.
// Addresses are used verbatim. A nil slice yields an empty table.
//
// Real balances are not computed here; every entry is zero.
func ZeroBalances(tokens []Token) BalanceTable {
	table := make(BalanceTable, len(tokens))
	for _, t := range tokens {
		table[t.Address] = new(big.Int)
	}
	return table
}
