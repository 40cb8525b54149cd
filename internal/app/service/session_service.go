package service

import (
	"context"
	"fmt"
	"math/big"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"
	"wallet_gateway/internal/infrastructure/configloader"
	"wallet_gateway/internal/pkg/utils"
	"wallet_gateway/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const crmTokenMissingMessage = "You need the CRM token to access this feature."

// defaultRowBalance is rendered when a token's balance is unknown.
const defaultRowBalance = "0.00"

// SessionServiceImpl implements port.SessionService.
type SessionServiceImpl struct {
	connector port.WalletConnector
	store     port.KeyValueStore
	notifier  port.Notifier
	cfg       *configloader.Config
	logger    *zap.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(
	connector port.WalletConnector,
	store port.KeyValueStore,
	notifier port.Notifier,
	cfg *configloader.Config,
	logger *zap.Logger,
) port.SessionService {
	return &SessionServiceImpl{
		connector: connector,
		store:     store,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger.Named("SessionService"),
	}
}

// Connect establishes a wallet session, persists the wallet id and returns
// the address.
func (s *SessionServiceImpl) Connect(ctx context.Context) (string, error) {
	sess, err := s.connector.Connect(ctx, port.DefaultConnectOptions())
	if err != nil {
		metrics.WalletConnects.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("Connector failed to establish session", zap.Error(err))
		return "", err
	}
	if sess == nil {
		metrics.WalletConnects.WithLabelValues(metrics.OutcomeError).Inc()
		return "", entity.ErrWalletNotFound
	}

	// Enable failures propagate unwrapped: the wallet's own error is the
	// one the dashboard must show.
	if err := sess.Enable(ctx); err != nil {
		metrics.WalletConnects.WithLabelValues(metrics.OutcomeError).Inc()
		return "", err
	}

	address := sess.SelectedAddress()
	if address == "" {
		if acct := sess.Account(); acct != nil {
			address = acct.Address()
		}
	}
	if address == "" {
		metrics.WalletConnects.WithLabelValues(metrics.OutcomeError).Inc()
		return "", entity.ErrNoAddress
	}

	s.store.Set(port.WalletIDKey, address)
	metrics.WalletConnects.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.Info("Wallet connected", zap.String("address", address))
	return address, nil
}

// CheckForCRMToken reports whether the address holds the CRM token. Dev mode
// short-circuits to true without any connector interaction.
func (s *SessionServiceImpl) CheckForCRMToken(ctx context.Context, address string) (bool, error) {
	if s.cfg.DevMode {
		s.logger.Debug("Dev mode active, skipping CRM token check", zap.String("address", address))
		return true, nil
	}

	acct, err := s.connectedAccount(ctx)
	if err != nil {
		s.logger.Error("CRM token check could not connect wallet", zap.Error(err))
		return false, err
	}

	words, err := acct.CallContract(ctx, port.Call{
		ContractAddress: s.cfg.Starknet.CRMTokenAddress,
		Entrypoint:      "balanceOf",
		Calldata:        []string{address},
	})
	if err != nil {
		metrics.ContractReads.WithLabelValues("CRM", metrics.OutcomeError).Inc()
		s.logger.Error("CRM token balance read failed", zap.String("address", address), zap.Error(err))
		return false, err
	}
	if len(words) == 0 {
		metrics.ContractReads.WithLabelValues("CRM", metrics.OutcomeError).Inc()
		err := fmt.Errorf("empty result from CRM token balanceOf for %s", address)
		s.logger.Error("CRM token balance read returned no words", zap.String("address", address))
		return false, err
	}

	balance, err := utils.ParseFeltWord(words[0])
	if err != nil {
		metrics.ContractReads.WithLabelValues("CRM", metrics.OutcomeError).Inc()
		s.logger.Error("CRM token balance word unparseable", zap.String("word", words[0]), zap.Error(err))
		return false, err
	}
	metrics.ContractReads.WithLabelValues("CRM", metrics.OutcomeOK).Inc()

	if balance.Sign() == 0 {
		s.notifier.Notify(crmTokenMissingMessage)
		s.logger.Info("CRM token not held", zap.String("address", address))
		return false, nil
	}
	return true, nil
}

// GetTokenBalances fetches the tracked token balances for the address. A
// single failing token read degrades that token to "0"; only a connection
// failure fails the whole call.
func (s *SessionServiceImpl) GetTokenBalances(ctx context.Context, address string) ([]entity.TokenBalance, error) {
	acct, err := s.connectedAccount(ctx)
	if err != nil {
		s.logger.Error("Balance fetch could not connect wallet", zap.String("address", address), zap.Error(err))
		return nil, err
	}

	tokens := s.cfg.Starknet.Tokens
	balances := make([]entity.TokenBalance, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	for i, token := range tokens {
		g.Go(func() error {
			balances[i] = s.readTokenBalance(gctx, acct, token, address)
			return nil
		})
	}
	// Goroutines never return errors: per-token failures are degraded in
	// place, which is the whole point of the batch.
	_ = g.Wait()

	return balances, nil
}

func (s *SessionServiceImpl) readTokenBalance(
	ctx context.Context,
	acct port.AccountCapability,
	token entity.TokenInfo,
	address string,
) entity.TokenBalance {
	degraded := entity.TokenBalance{
		Symbol:    token.Symbol,
		Raw:       big.NewInt(0),
		Decimals:  token.Decimals,
		Formatted: "0",
	}

	words, err := acct.CallContract(ctx, port.Call{
		ContractAddress: token.Address,
		Entrypoint:      "balanceOf",
		Calldata:        []string{address},
	})
	if err != nil || len(words) == 0 {
		metrics.ContractReads.WithLabelValues(token.Symbol, metrics.OutcomeError).Inc()
		s.logger.Warn("Token balance read failed, degrading to zero",
			zap.String("token", token.Symbol), zap.String("address", address), zap.Error(err))
		return degraded
	}

	raw, err := utils.ParseFeltWord(words[0])
	if err != nil {
		metrics.ContractReads.WithLabelValues(token.Symbol, metrics.OutcomeError).Inc()
		s.logger.Warn("Token balance word unparseable, degrading to zero",
			zap.String("token", token.Symbol), zap.String("word", words[0]), zap.Error(err))
		return degraded
	}

	formatted, err := utils.FormatUnits(raw, token.Decimals)
	if err != nil {
		metrics.ContractReads.WithLabelValues(token.Symbol, metrics.OutcomeError).Inc()
		s.logger.Warn("Token balance formatting failed, degrading to zero",
			zap.String("token", token.Symbol), zap.Error(err))
		return degraded
	}

	metrics.ContractReads.WithLabelValues(token.Symbol, metrics.OutcomeOK).Inc()
	return entity.TokenBalance{
		Symbol:    token.Symbol,
		Raw:       raw,
		Decimals:  token.Decimals,
		Formatted: formatted,
	}
}

// GetBalanceRows maps token balances into the dashboard's ordered rows. An
// empty walletID is a silent no-op. On fetch failure the default rows come
// back together with the error; the caller decides whether to surface it.
func (s *SessionServiceImpl) GetBalanceRows(ctx context.Context, walletID string) ([]entity.BalanceRow, error) {
	if walletID == "" {
		return nil, nil
	}

	rows := make([]entity.BalanceRow, len(s.cfg.Starknet.Tokens))
	for i, token := range s.cfg.Starknet.Tokens {
		rows[i] = entity.BalanceRow{
			Icon:    token.Icon,
			Title:   token.Symbol,
			Balance: defaultRowBalance,
		}
	}

	balances, err := s.GetTokenBalances(ctx, walletID)
	if err != nil {
		s.logger.Error("Balance row fetch failed, returning defaults", zap.String("walletId", walletID), zap.Error(err))
		return rows, err
	}

	bySymbol := make(map[string]entity.TokenBalance, len(balances))
	for _, b := range balances {
		bySymbol[b.Symbol] = b
	}
	for i := range rows {
		if b, ok := bySymbol[rows[i].Title]; ok && b.Formatted != "" {
			rows[i].Balance = b.Formatted
		}
	}
	return rows, nil
}

// Logout clears the persisted wallet id. Pure side effect.
func (s *SessionServiceImpl) Logout() {
	s.store.Delete(port.WalletIDKey)
	s.logger.Debug("Session cleared")
}

// connectedAccount connects and returns the account capability, or
// ErrWalletNotConnected when the connector reports a disconnected state.
func (s *SessionServiceImpl) connectedAccount(ctx context.Context) (port.AccountCapability, error) {
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
	return acct, nil
}
