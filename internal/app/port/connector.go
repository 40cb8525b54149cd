package port

import (
	"context"

	"wallet_gateway/internal/domain/entity"
)

// Modal behavior passed to the connector on Connect.
const (
	ModalModeAlwaysAsk = "alwaysAsk"
	ModalThemeLight    = "light"
)

// ConnectOptions enumerates the wallet providers the dashboard accepts and
// how the connector's modal should behave.
type ConnectOptions struct {
	Providers  []string
	ModalMode  string
	ModalTheme string
}

// DefaultConnectOptions returns the options the dashboard always connects
// with: argentX and braavos, modal shown on every connect, light theme.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		Providers:  []string{"argentX", "braavos"},
		ModalMode:  ModalModeAlwaysAsk,
		ModalTheme: ModalThemeLight,
	}
}

// Call describes a read-only contract call.
type Call struct {
	ContractAddress string
	Entrypoint      string
	Calldata        []string
}

// WalletConnector establishes wallet sessions. The production implementation
// talks to a Starknet node; tests substitute a fake.
type WalletConnector interface {
	// Connect returns a session, or (nil, nil) when no wallet is available.
	Connect(ctx context.Context, opts ConnectOptions) (WalletSession, error)
}

// WalletSession is a transient session with a connected wallet. It is
// re-established on each service call and never cached.
type WalletSession interface {
	// Enable asks the wallet to authorize the dapp. Errors propagate to the
	// caller unwrapped.
	Enable(ctx context.Context) error

	// IsConnected reports whether the session is usable for contract calls.
	IsConnected() bool

	// SelectedAddress returns the wallet's selected address, or "" if the
	// wallet does not expose one.
	SelectedAddress() string

	// Account returns the capability object for contract interaction, or
	// nil when the session has no account.
	Account() AccountCapability
}

// AccountCapability exposes exactly the account operations the gateway
// consumes.
type AccountCapability interface {
	Address() string

	// CallContract performs a read-only call and returns the raw felt words
	// of the result.
	CallContract(ctx context.Context, call Call) ([]string, error)

	// DeployContract submits a deployment transaction.
	DeployContract(ctx context.Context, payload entity.DeployPayload) (*entity.DeploymentResult, error)

	// WaitForTransaction blocks until the transaction is accepted or ctx
	// expires.
	WaitForTransaction(ctx context.Context, txHash string) error
}
