package service

import (
	"context"
	"sync"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"
	"wallet_gateway/internal/infrastructure/configloader"
)

type fakeAccount struct {
	address   string
	callFn    func(call port.Call) ([]string, error)
	deployFn  func(payload entity.DeployPayload) (*entity.DeploymentResult, error)
	waitErr   error
	waitCalls []string

	mu          sync.Mutex
	deployCalls int
}

func (a *fakeAccount) Address() string { return a.address }

func (a *fakeAccount) CallContract(_ context.Context, call port.Call) ([]string, error) {
	return a.callFn(call)
}

func (a *fakeAccount) DeployContract(_ context.Context, payload entity.DeployPayload) (*entity.DeploymentResult, error) {
	a.mu.Lock()
	a.deployCalls++
	a.mu.Unlock()
	return a.deployFn(payload)
}

func (a *fakeAccount) WaitForTransaction(_ context.Context, txHash string) error {
	a.waitCalls = append(a.waitCalls, txHash)
	return a.waitErr
}

type fakeSession struct {
	connected   bool
	selected    string
	acct        port.AccountCapability
	enableErr   error
	enableCalls int
}

func (s *fakeSession) Enable(context.Context) error {
	s.enableCalls++
	return s.enableErr
}

func (s *fakeSession) IsConnected() bool { return s.connected }

func (s *fakeSession) SelectedAddress() string { return s.selected }

func (s *fakeSession) Account() port.AccountCapability { return s.acct }

type fakeConnector struct {
	session port.WalletSession
	err     error

	mu    sync.Mutex
	calls int
}

func (c *fakeConnector) Connect(context.Context, port.ConnectOptions) (port.WalletSession, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.session, c.err
}

func (c *fakeConnector) connectCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{data: make(map[string]string)} }

func (s *fakeStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *fakeStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

type backendUpdate struct {
	walletID        string
	contractAddress string
}

type fakeBackend struct {
	status    *entity.UserContractStatus
	checkErr  error
	updateErr error

	checkCalls int
	updates    []backendUpdate
}

func (b *fakeBackend) CheckUser(_ context.Context, walletID string) (*entity.UserContractStatus, error) {
	b.checkCalls++
	if b.checkErr != nil {
		return nil, b.checkErr
	}
	return b.status, nil
}

func (b *fakeBackend) UpdateUserContract(_ context.Context, walletID, contractAddress string) error {
	b.updates = append(b.updates, backendUpdate{walletID: walletID, contractAddress: contractAddress})
	return b.updateErr
}

func testConfig() *configloader.Config {
	return &configloader.Config{
		Starknet: configloader.StarknetConfig{
			CRMTokenAddress: "0x0crm",
			Tokens:          entity.DefaultTokens,
			Deploy:          entity.DeployPayload{ClassHash: "0x0class"},
		},
	}
}
