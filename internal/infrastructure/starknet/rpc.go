package starknet

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultDialTimeout = 10 * time.Second

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      int                 `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *rpcError           `json:"error"`
}

// rpcClient is a rate-limited JSON-RPC 2.0 client for a Starknet node.
type rpcClient struct {
	client      *fasthttp.Client
	endpoint    string
	callTimeout time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// dialNode probes the given endpoints in order with starknet_chainId and
// returns a client bound to the first one that answers.
func dialNode(urls []string, callTimeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) (*rpcClient, error) {
	var lastErr error
	for _, endpoint := range urls {
		if endpoint == "" {
			continue
		}
		c := &rpcClient{
			client:      &fasthttp.Client{},
			endpoint:    endpoint,
			callTimeout: callTimeout,
			limiter:     limiter,
			logger:      logger.Named("StarknetRPC"),
		}

		ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
		var chainID string
		err := c.call(ctx, "starknet_chainId", []any{}, &chainID)
		cancel()
		if err == nil {
			c.logger.Info("Connected to Starknet node", zap.String("endpoint", endpoint), zap.String("chainId", chainID))
			return c, nil
		}
		lastErr = fmt.Errorf("failed to reach node %s: %w", endpoint, err)
		c.logger.Warn("Node probe failed, trying next endpoint", zap.String("endpoint", endpoint), zap.Error(err))
	}
	return nil, fmt.Errorf("all node endpoints failed: %w", lastErr)
}

// call executes one JSON-RPC request and unmarshals the result into out
// when out is non-nil.
func (c *rpcClient) call(ctx context.Context, method string, params any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait for %s: %w", method, err)
		}
	}

	payload, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.callTimeout)
	}
	if err != nil {
		return fmt.Errorf("%s request to %s failed: %w", method, c.endpoint, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("%s request to %s failed with status %d: %s",
			method, c.endpoint, resp.StatusCode(), string(resp.Body()))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s returned RPC error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}
