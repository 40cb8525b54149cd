package port

import (
	"context"

	"wallet_gateway/internal/domain/entity"
)

// DeploymentService deploys the user's contract account and keeps the
// backend's deployment record in sync.
type DeploymentService interface {
	// DeployContract deploys the contract account for the wallet and waits
	// for on-chain confirmation. No retry on transient failure.
	DeployContract(ctx context.Context, walletID string) (*entity.DeploymentResult, error)

	// CheckAndDeployContract deploys at most once: if the backend already
	// reports the contract deployed it returns immediately without touching
	// the connector. A non-nil DeploymentResult may accompany an error when
	// the deployment succeeded but the backend update failed.
	CheckAndDeployContract(ctx context.Context, walletID string) (*entity.UserContractStatus, *entity.DeploymentResult, error)
}
