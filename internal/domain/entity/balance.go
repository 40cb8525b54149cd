package entity

import "math/big"

// TokenBalance represents the amount of a single token held by a wallet.
// Raw is in base units; Formatted is fixed to 4 fractional digits.
type TokenBalance struct {
	Symbol    string   `json:"symbol"`
	Raw       *big.Int `json:"-"`
	Decimals  uint8    `json:"decimals"`
	Formatted string   `json:"formatted"`
}

// BalanceRow is the presentation-ready form of a token balance, in the order
// the dashboard renders them.
type BalanceRow struct {
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Balance string `json:"balance"`
}
