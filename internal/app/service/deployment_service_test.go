package service

import (
	"context"
	"errors"
	"testing"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"

	"go.uber.org/zap"
)

func newDeploymentService(conn port.WalletConnector, backend port.BackendClient) port.DeploymentService {
	return NewDeploymentService(conn, backend, testConfig(), zap.NewNop())
}

func deployReadyConnector(acct *fakeAccount) *fakeConnector {
	return &fakeConnector{session: &fakeSession{connected: true, acct: acct}}
}

func TestDeployContractRejectsDisconnectedBeforeDeploying(t *testing.T) {
	acct := &fakeAccount{deployFn: func(entity.DeployPayload) (*entity.DeploymentResult, error) {
		t.Fatal("deploy must not be attempted on a disconnected session")
		return nil, nil
	}}
	conn := &fakeConnector{session: &fakeSession{connected: false, acct: acct}}
	svc := newDeploymentService(conn, &fakeBackend{})

	_, err := svc.DeployContract(context.Background(), "0xwallet")
	if err == nil || err.Error() != "Wallet not connected" {
		t.Fatalf("got %v, want error with message exactly %q", err, "Wallet not connected")
	}
}

func TestDeployContractWaitsForConfirmation(t *testing.T) {
	acct := &fakeAccount{
		deployFn: func(payload entity.DeployPayload) (*entity.DeploymentResult, error) {
			if payload.ClassHash != "0x0class" {
				t.Fatalf("payload class hash: got %q", payload.ClassHash)
			}
			return &entity.DeploymentResult{TransactionHash: "0xabc", ContractAddress: "0xdef"}, nil
		},
	}
	svc := newDeploymentService(deployReadyConnector(acct), &fakeBackend{})

	result, err := svc.DeployContract(context.Background(), "0xwallet")
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if result.TransactionHash != "0xabc" || result.ContractAddress != "0xdef" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(acct.waitCalls) != 1 || acct.waitCalls[0] != "0xabc" {
		t.Fatalf("must wait on the deployment transaction, got %v", acct.waitCalls)
	}
}

func TestDeployContractWaitErrorPropagates(t *testing.T) {
	waitErr := errors.New("transaction rejected")
	acct := &fakeAccount{
		deployFn: func(entity.DeployPayload) (*entity.DeploymentResult, error) {
			return &entity.DeploymentResult{TransactionHash: "0xabc", ContractAddress: "0xdef"}, nil
		},
		waitErr: waitErr,
	}
	svc := newDeploymentService(deployReadyConnector(acct), &fakeBackend{})

	if _, err := svc.DeployContract(context.Background(), "0xwallet"); !errors.Is(err, waitErr) {
		t.Fatalf("got %v, want wait error", err)
	}
}

func TestCheckAndDeployAlreadyDeployedSkipsConnector(t *testing.T) {
	conn := &fakeConnector{}
	backend := &fakeBackend{status: &entity.UserContractStatus{
		WalletID:           "0xwallet",
		IsContractDeployed: true,
		ContractAddress:    "0xexisting",
	}}
	svc := newDeploymentService(conn, backend)

	status, result, err := svc.CheckAndDeployContract(context.Background(), "0xwallet")
	if err != nil {
		t.Fatalf("check and deploy: %v", err)
	}
	if result != nil {
		t.Fatalf("no deployment expected, got %+v", result)
	}
	if status.ContractAddress != "0xexisting" {
		t.Fatalf("status: %+v", status)
	}
	if conn.connectCalls() != 0 {
		t.Fatalf("connector must stay untouched when already deployed, got %d calls", conn.connectCalls())
	}
}

func TestCheckAndDeployDeploysAndSyncsBackend(t *testing.T) {
	acct := &fakeAccount{
		deployFn: func(entity.DeployPayload) (*entity.DeploymentResult, error) {
			return &entity.DeploymentResult{TransactionHash: "0xabc", ContractAddress: "0xdef"}, nil
		},
	}
	backend := &fakeBackend{status: &entity.UserContractStatus{WalletID: "0xwallet"}}
	svc := newDeploymentService(deployReadyConnector(acct), backend)

	status, result, err := svc.CheckAndDeployContract(context.Background(), "0xwallet")
	if err != nil {
		t.Fatalf("check and deploy: %v", err)
	}
	if result == nil || result.ContractAddress != "0xdef" {
		t.Fatalf("result: %+v", result)
	}
	if len(backend.updates) != 1 {
		t.Fatalf("exactly one backend update expected, got %d", len(backend.updates))
	}
	if backend.updates[0] != (backendUpdate{walletID: "0xwallet", contractAddress: "0xdef"}) {
		t.Fatalf("backend update payload: %+v", backend.updates[0])
	}
	if !status.IsContractDeployed || status.ContractAddress != "0xdef" {
		t.Fatalf("final status: %+v", status)
	}
}

func TestCheckAndDeployBackendCheckErrorPropagatesSameError(t *testing.T) {
	checkErr := errors.New("backend unreachable")
	svc := newDeploymentService(&fakeConnector{}, &fakeBackend{checkErr: checkErr})

	_, _, err := svc.CheckAndDeployContract(context.Background(), "0xwallet")
	if !errors.Is(err, checkErr) {
		t.Fatalf("got %v, want the backend error itself", err)
	}
}

func TestCheckAndDeployBackendUpdateFailureKeepsResult(t *testing.T) {
	acct := &fakeAccount{
		deployFn: func(entity.DeployPayload) (*entity.DeploymentResult, error) {
			return &entity.DeploymentResult{TransactionHash: "0xabc", ContractAddress: "0xdef"}, nil
		},
	}
	updateErr := errors.New("backend write failed")
	backend := &fakeBackend{
		status:    &entity.UserContractStatus{WalletID: "0xwallet"},
		updateErr: updateErr,
	}
	svc := newDeploymentService(deployReadyConnector(acct), backend)

	_, result, err := svc.CheckAndDeployContract(context.Background(), "0xwallet")
	if !errors.Is(err, updateErr) {
		t.Fatalf("got %v, want backend update error", err)
	}
	// the on-chain deployment happened; the result must survive the sync
	// failure so the caller can surface the address
	if result == nil || result.ContractAddress != "0xdef" {
		t.Fatalf("result lost on sync failure: %+v", result)
	}
}
