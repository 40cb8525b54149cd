package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// BalanceFractionDigits is how many fractional digits a formatted balance
// carries. The dashboard always renders exactly four.
const BalanceFractionDigits = 4

// FormatUnits converts a base-unit amount to a human-readable decimal string
// with exactly BalanceFractionDigits fractional digits, using the token's
// decimal exponent.
// Example: amount=1234500000000000000, decimals=18 => "1.2345".
func FormatUnits(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0." + strings.Repeat("0", BalanceFractionDigits), nil
	}
	if amount.Sign() < 0 {
		return "", fmt.Errorf("negative balance %s is not representable", amount.String())
	}

	amountFloat := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value := new(big.Float).Quo(amountFloat, divisor)

	return value.Text('f', BalanceFractionDigits), nil
}

// ParseFeltWord parses one felt word returned by a contract read into an
// unsigned integer. Accepts both 0x-prefixed hex (possibly zero padded, as
// gateways return felts) and plain decimal strings.
func ParseFeltWord(word string) (*big.Int, error) {
	s := strings.TrimSpace(word)
	if s == "" {
		return nil, fmt.Errorf("empty felt word")
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
		if s == "" {
			return nil, fmt.Errorf("invalid felt word %q", word)
		}
	}

	value, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid felt word %q", word)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("felt word %q is negative", word)
	}
	return value, nil
}
