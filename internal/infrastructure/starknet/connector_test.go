package starknet

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/infrastructure/configloader"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testChainID = "0x534e5f4d41494e"

// newTestNode serves JSON-RPC 2.0 responses produced by handle.
func newTestNode(t *testing.T, handle func(method string, params jsoniter.RawMessage) (any, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
			return
		}
		var req struct {
			ID     int                 `json:"id"`
			Method string              `json:"method"`
			Params jsoniter.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return
		}

		result, rpcErr := handle(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		out, err := json.Marshal(resp)
		if err != nil {
			t.Errorf("failed to encode response: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	}))
}

func testNodeConfig(nodeURL string) configloader.StarknetConfig {
	return configloader.StarknetConfig{
		RPCURL:             nodeURL,
		RPCTimeoutMs:       2000,
		AccountAddress:     "0xacc",
		MaxFee:             "0x1",
		WaitPollIntervalMs: 10,
	}
}

func connectedAccount(t *testing.T, conn *Connector) port.AccountCapability {
	t.Helper()
	sess, err := conn.Connect(context.Background(), port.DefaultConnectOptions())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if sess == nil || !sess.IsConnected() {
		t.Fatal("expected a connected session")
	}
	acct := sess.Account()
	if acct == nil {
		t.Fatal("expected an account capability")
	}
	return acct
}

func TestNewFallsBackPastUnreachablePrimary(t *testing.T) {
	node := newTestNode(t, func(method string, _ jsoniter.RawMessage) (any, *rpcError) {
		if method != "starknet_chainId" {
			t.Errorf("unexpected method %s during dial", method)
			return nil, &rpcError{Code: -32601, Message: "method not found"}
		}
		return testChainID, nil
	})
	defer node.Close()

	// Port 1 is never listening, so the primary probe must fail fast.
	cfg := testNodeConfig("http://127.0.0.1:1")
	cfg.FallbackRPCURLs = []string{node.URL}

	conn, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("expected the fallback endpoint to take over: %v", err)
	}
	if conn.rpc.endpoint != node.URL {
		t.Fatalf("bound endpoint: got %q, want %q", conn.rpc.endpoint, node.URL)
	}
}

func TestNewFailsWhenAllEndpointsUnreachable(t *testing.T) {
	cfg := testNodeConfig("http://127.0.0.1:1")
	cfg.FallbackRPCURLs = []string{"http://127.0.0.1:2"}

	if _, err := New(cfg, zap.NewNop()); err == nil {
		t.Fatal("expected an error when no endpoint answers")
	}
}

func TestWaitForTransactionRetriesPendingReceipt(t *testing.T) {
	var receiptCalls int32
	node := newTestNode(t, func(method string, _ jsoniter.RawMessage) (any, *rpcError) {
		switch method {
		case "starknet_chainId":
			return testChainID, nil
		case "starknet_getTransactionReceipt":
			if atomic.AddInt32(&receiptCalls, 1) <= 2 {
				return nil, &rpcError{Code: 29, Message: "Transaction hash not found"}
			}
			return map[string]string{
				"finality_status":  "ACCEPTED_ON_L2",
				"execution_status": "SUCCEEDED",
			}, nil
		}
		t.Errorf("unexpected method %s", method)
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})
	defer node.Close()

	conn, err := New(testNodeConfig(node.URL), zap.NewNop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	acct := connectedAccount(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := acct.WaitForTransaction(ctx, "0xabc"); err != nil {
		t.Fatalf("pending receipts must be retried until acceptance: %v", err)
	}
	if got := atomic.LoadInt32(&receiptCalls); got < 3 {
		t.Fatalf("expected at least 3 receipt polls, got %d", got)
	}
}

func TestWaitForTransactionRevertedReturnsReason(t *testing.T) {
	node := newTestNode(t, func(method string, _ jsoniter.RawMessage) (any, *rpcError) {
		switch method {
		case "starknet_chainId":
			return testChainID, nil
		case "starknet_getTransactionReceipt":
			return map[string]string{
				"finality_status":  "ACCEPTED_ON_L2",
				"execution_status": "REVERTED",
				"revert_reason":    "insufficient max fee",
			}, nil
		}
		t.Errorf("unexpected method %s", method)
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})
	defer node.Close()

	conn, err := New(testNodeConfig(node.URL), zap.NewNop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	acct := connectedAccount(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = acct.WaitForTransaction(ctx, "0xabc")
	if err == nil {
		t.Fatal("expected an error for a reverted transaction")
	}
	if !strings.Contains(err.Error(), "insufficient max fee") {
		t.Fatalf("error must carry the revert reason, got %v", err)
	}
}

func TestNewWarnsOnZeroMaxFee(t *testing.T) {
	node := newTestNode(t, func(method string, _ jsoniter.RawMessage) (any, *rpcError) {
		return testChainID, nil
	})
	defer node.Close()

	core, logs := observer.New(zap.WarnLevel)
	cfg := testNodeConfig(node.URL)
	cfg.MaxFee = "0x0"

	if _, err := New(cfg, zap.New(core)); err != nil {
		t.Fatalf("dial: %v", err)
	}
	if logs.FilterMessageSnippet("maxFee").Len() != 1 {
		t.Fatalf("expected one zero max-fee warning, got %d warn entries", logs.Len())
	}
}
