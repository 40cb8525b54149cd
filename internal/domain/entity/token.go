package entity

// TokenInfo holds the details of a tracked token contract on Starknet.
type TokenInfo struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Address  string `json:"address" yaml:"address"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Symbols of the three tokens the dashboard tracks.
const (
	SymbolETH  = "ETH"
	SymbolUSDC = "USDC"
	SymbolSTRK = "STRK"
)

// DefaultTokens is the mainnet token registry used when the config does not
// override it. Order matters: balance rows are rendered in this order.
var DefaultTokens = []TokenInfo{
	{
		Symbol:   SymbolETH,
		Address:  "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
		Decimals: 18,
		Icon:     "eth",
	},
	{
		Symbol:   SymbolUSDC,
		Address:  "0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8",
		Decimals: 6,
		Icon:     "usdc",
	},
	{
		Symbol:   SymbolSTRK,
		Address:  "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d",
		Decimals: 18,
		Icon:     "strk",
	},
}
