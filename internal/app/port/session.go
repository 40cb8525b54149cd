package port

import (
	"context"

	"wallet_gateway/internal/domain/entity"
)

// SessionService wraps the wallet connector for the dashboard: session
// establishment, token balances, and the CRM-token feature gate.
type SessionService interface {
	// Connect establishes a wallet session and returns the wallet address.
	Connect(ctx context.Context) (string, error)

	// CheckForCRMToken reports whether the address holds a positive CRM
	// token balance. Always true in dev mode, without touching the
	// connector.
	CheckForCRMToken(ctx context.Context, address string) (bool, error)

	// GetTokenBalances fetches ETH, USDC and STRK balances. A single
	// failing token read degrades that token to "0"; a connection failure
	// fails the whole call.
	GetTokenBalances(ctx context.Context, address string) ([]entity.TokenBalance, error)

	// GetBalanceRows maps balances into the ordered presentation rows. An
	// empty walletID is a no-op. On fetch failure the default rows are
	// returned together with the error; the caller may ignore it.
	GetBalanceRows(ctx context.Context, walletID string) ([]entity.BalanceRow, error)

	// Logout clears the persisted wallet_id key.
	Logout()
}
