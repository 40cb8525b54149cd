package port

import (
	"context"

	"wallet_gateway/internal/domain/entity"
)

// BackendClient talks to the dashboard backend's user-contract endpoints.
type BackendClient interface {
	// CheckUser fetches the deployment status for a wallet via
	// GET /api/check-user?wallet_id=<id>.
	CheckUser(ctx context.Context, walletID string) (*entity.UserContractStatus, error)

	// UpdateUserContract reports a freshly deployed contract address via
	// POST /api/update-user-contract.
	UpdateUserContract(ctx context.Context, walletID string, contractAddress string) error
}
