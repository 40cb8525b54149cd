// Package starknet implements the production wallet connector on top of a
// Starknet JSON-RPC node.
package starknet

import (
	"context"
	"fmt"
	"time"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"
	"wallet_gateway/internal/infrastructure/configloader"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Connector implements port.WalletConnector for a node-backed wallet
// session. The account it acts for comes from configuration; an empty
// account address means no wallet is available.
type Connector struct {
	rpc            *rpcClient
	accountAddress string
	maxFee         string
	pollInterval   time.Duration
	logger         *zap.Logger
}

// New dials the configured node (primary first, then fallbacks) and returns
// a connector.
func New(cfg configloader.StarknetConfig, logger *zap.Logger) (*Connector, error) {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.BurstLimit
		if burst <= 0 {
			burst = cfg.RateLimit
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if cfg.MaxFee == "0x0" {
		logger.Warn("starknet.maxFee is 0x0, only fee-exempt account classes will accept deploy transactions")
	}

	urls := append([]string{cfg.RPCURL}, cfg.FallbackRPCURLs...)
	rpc, err := dialNode(urls, time.Duration(cfg.RPCTimeoutMs)*time.Millisecond, limiter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to dial Starknet node: %w", err)
	}

	return &Connector{
		rpc:            rpc,
		accountAddress: cfg.AccountAddress,
		maxFee:         cfg.MaxFee,
		pollInterval:   time.Duration(cfg.WaitPollIntervalMs) * time.Millisecond,
		logger:         logger.Named("StarknetConnector"),
	}, nil
}

// Connect returns a session for the configured account, or (nil, nil) when
// no account is configured.
func (c *Connector) Connect(ctx context.Context, opts port.ConnectOptions) (port.WalletSession, error) {
	c.logger.Debug("Connect requested",
		zap.Strings("providers", opts.Providers),
		zap.String("modalMode", opts.ModalMode),
		zap.String("modalTheme", opts.ModalTheme))

	if c.accountAddress == "" {
		c.logger.Warn("No wallet account configured, connector has no wallet to offer")
		return nil, nil
	}
	return &session{conn: c}, nil
}

// session is a transient node-backed wallet session. Never cached; a new
// one is created per Connect.
type session struct {
	conn *Connector
}

// Enable verifies the node is reachable. Errors propagate unwrapped so the
// caller sees the connector's own failure.
func (s *session) Enable(ctx context.Context) error {
	var chainID string
	return s.conn.rpc.call(ctx, "starknet_chainId", []any{}, &chainID)
}

func (s *session) IsConnected() bool {
	return s.conn.accountAddress != ""
}

func (s *session) SelectedAddress() string {
	return s.conn.accountAddress
}

func (s *session) Account() port.AccountCapability {
	if s.conn.accountAddress == "" {
		return nil
	}
	return &account{conn: s.conn}
}

// account implements port.AccountCapability over the node RPC.
type account struct {
	conn *Connector
}

func (a *account) Address() string {
	return a.conn.accountAddress
}

type functionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

// CallContract performs a read-only starknet_call and returns the raw felt
// words of the result.
func (a *account) CallContract(ctx context.Context, call port.Call) ([]string, error) {
	params := []any{
		functionCall{
			ContractAddress:    call.ContractAddress,
			EntryPointSelector: EntrypointSelector(call.Entrypoint),
			Calldata:           call.Calldata,
		},
		"latest",
	}

	var words []string
	if err := a.conn.rpc.call(ctx, "starknet_call", params, &words); err != nil {
		return nil, fmt.Errorf("contract call %s on %s failed: %w", call.Entrypoint, call.ContractAddress, err)
	}
	return words, nil
}

type deployAccountTxn struct {
	Type                string   `json:"type"`
	Version             string   `json:"version"`
	MaxFee              string   `json:"max_fee"`
	Signature           []string `json:"signature"`
	Nonce               string   `json:"nonce"`
	ClassHash           string   `json:"class_hash"`
	ContractAddressSalt string   `json:"contract_address_salt"`
	ConstructorCalldata []string `json:"constructor_calldata"`
}

type addDeployAccountResult struct {
	TransactionHash string `json:"transaction_hash"`
	ContractAddress string `json:"contract_address"`
}

// DeployContract submits a DEPLOY_ACCOUNT transaction built from the static
// payload. Signing is the node operator's concern (pre-authorized accounts);
// the gateway only relays.
func (a *account) DeployContract(ctx context.Context, payload entity.DeployPayload) (*entity.DeploymentResult, error) {
	salt := payload.Salt
	if salt == "" {
		salt = a.conn.accountAddress
	}

	calldata := payload.ConstructorCalldata
	if calldata == nil {
		calldata = []string{}
	}

	txn := deployAccountTxn{
		Type:                "DEPLOY_ACCOUNT",
		Version:             "0x1",
		MaxFee:              a.conn.maxFee,
		Signature:           []string{},
		Nonce:               "0x0",
		ClassHash:           payload.ClassHash,
		ContractAddressSalt: salt,
		ConstructorCalldata: calldata,
	}

	var result addDeployAccountResult
	err := a.conn.rpc.call(ctx, "starknet_addDeployAccountTransaction",
		map[string]any{"deploy_account_transaction": txn}, &result)
	if err != nil {
		return nil, fmt.Errorf("deploy account transaction failed: %w", err)
	}

	a.conn.logger.Info("Deployment transaction submitted",
		zap.String("transactionHash", result.TransactionHash),
		zap.String("contractAddress", result.ContractAddress))

	return &entity.DeploymentResult{
		TransactionHash: result.TransactionHash,
		ContractAddress: result.ContractAddress,
	}, nil
}

type txnReceipt struct {
	FinalityStatus  string `json:"finality_status"`
	ExecutionStatus string `json:"execution_status"`
	RevertReason    string `json:"revert_reason"`
}

// WaitForTransaction polls the transaction receipt until the transaction is
// accepted, reverted, or ctx expires. "Transaction hash not found" is
// treated as pending: the node may not have seen the transaction yet.
func (a *account) WaitForTransaction(ctx context.Context, txHash string) error {
	ticker := time.NewTicker(a.conn.pollInterval)
	defer ticker.Stop()

	for {
		var receipt txnReceipt
		err := a.conn.rpc.call(ctx, "starknet_getTransactionReceipt", []any{txHash}, &receipt)
		if err == nil {
			switch receipt.FinalityStatus {
			case "ACCEPTED_ON_L2", "ACCEPTED_ON_L1":
				if receipt.ExecutionStatus == "REVERTED" {
					return fmt.Errorf("transaction %s reverted: %s", txHash, receipt.RevertReason)
				}
				return nil
			}
		} else {
			a.conn.logger.Debug("Receipt not available yet", zap.String("txHash", txHash), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for transaction %s: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}

var (
	_ port.WalletConnector   = (*Connector)(nil)
	_ port.WalletSession     = (*session)(nil)
	_ port.AccountCapability = (*account)(nil)
)
