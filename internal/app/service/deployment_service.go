package service

import (
	"context"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"
	"wallet_gateway/internal/infrastructure/configloader"
	"wallet_gateway/pkg/metrics"

	"go.uber.org/zap"
)

// checkAndDeployLogMsg is the fixed message logged on any failure inside the
// check-and-deploy flow.
const checkAndDeployLogMsg = "Error checking or deploying user contract"

// DeploymentServiceImpl implements port.DeploymentService.
type DeploymentServiceImpl struct {
	connector port.WalletConnector
	backend   port.BackendClient
	cfg       *configloader.Config
	logger    *zap.Logger
}

// NewDeploymentService creates a new deployment service.
func NewDeploymentService(
	connector port.WalletConnector,
	backend port.BackendClient,
	cfg *configloader.Config,
	logger *zap.Logger,
) port.DeploymentService {
	return &DeploymentServiceImpl{
		connector: connector,
		backend:   backend,
		cfg:       cfg,
		logger:    logger.Named("DeploymentService"),
	}
}

// DeployContract deploys the contract account and blocks until the
// transaction is confirmed. No retry on transient failure; every error
// propagates verbatim.
func (s *DeploymentServiceImpl) DeployContract(ctx context.Context, walletID string) (*entity.DeploymentResult, error) {
	sess, err := s.connector.Connect(ctx, port.DefaultConnectOptions())
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.IsConnected() {
		return nil, entity.ErrWalletNotConnected
	}
	acct := sess.Account()
	if acct == nil {
		return nil, entity.ErrWalletNotConnected
	}

	s.logger.Info("Deploying contract account", zap.String("walletId", walletID),
		zap.String("classHash", s.cfg.Starknet.Deploy.ClassHash))

	result, err := acct.DeployContract(ctx, s.cfg.Starknet.Deploy)
	if err != nil {
		metrics.Deployments.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	if err := acct.WaitForTransaction(ctx, result.TransactionHash); err != nil {
		metrics.Deployments.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.Deployments.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.Info("Contract account deployed",
		zap.String("walletId", walletID),
		zap.String("transactionHash", result.TransactionHash),
		zap.String("contractAddress", result.ContractAddress))
	return result, nil
}

// CheckAndDeployContract deploys at most once per wallet: the backend record
// is the source of truth, re-derived on every call.
//
// Known gap, preserved deliberately: when the deployment succeeds but the
// backend update fails, chain and backend state diverge until the next
// check. The DeploymentResult is still returned next to the error so the
// caller can surface the on-chain address.
func (s *DeploymentServiceImpl) CheckAndDeployContract(ctx context.Context, walletID string) (*entity.UserContractStatus, *entity.DeploymentResult, error) {
	status, err := s.backend.CheckUser(ctx, walletID)
	if err != nil {
		s.logger.Error(checkAndDeployLogMsg, zap.String("walletId", walletID), zap.Error(err))
		return nil, nil, err
	}

	if status.IsContractDeployed {
		s.logger.Debug("Contract already deployed, skipping wallet connector",
			zap.String("walletId", walletID),
			zap.String("contractAddress", status.ContractAddress))
		return status, nil, nil
	}

	result, err := s.DeployContract(ctx, walletID)
	if err != nil {
		s.logger.Error(checkAndDeployLogMsg, zap.String("walletId", walletID), zap.Error(err))
		return status, nil, err
	}

	if err := s.backend.UpdateUserContract(ctx, walletID, result.ContractAddress); err != nil {
		s.logger.Error(checkAndDeployLogMsg, zap.String("walletId", walletID),
			zap.String("contractAddress", result.ContractAddress), zap.Error(err))
		return status, result, err
	}

	return &entity.UserContractStatus{
		WalletID:           walletID,
		IsContractDeployed: true,
		ContractAddress:    result.ContractAddress,
	}, result, nil
}
