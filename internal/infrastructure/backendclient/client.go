// Package backendclient implements the HTTP client for the dashboard
// backend's user-contract endpoints.
package backendclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"
	"wallet_gateway/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	checkUserPath          = "/api/check-user"
	updateUserContractPath = "/api/update-user-contract"
)

// Client implements port.BackendClient over fasthttp.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a backend client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("BackendClient"),
	}
}

type checkUserResponse struct {
	IsContractDeployed bool   `json:"is_contract_deployed"`
	ContractAddress    string `json:"contract_address"`
}

type updateUserContractRequest struct {
	WalletID        string `json:"wallet_id"`
	ContractAddress string `json:"contract_address"`
}

// CheckUser fetches the deployment status record for a wallet.
func (c *Client) CheckUser(ctx context.Context, walletID string) (*entity.UserContractStatus, error) {
	requestURL := fmt.Sprintf("%s%s?wallet_id=%s", c.baseURL, checkUserPath, url.QueryEscape(walletID))

	body, err := c.do(ctx, fasthttp.MethodGet, requestURL, nil)
	if err != nil {
		metrics.BackendSync.WithLabelValues("check-user", metrics.OutcomeError).Inc()
		return nil, err
	}

	var resp checkUserResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.BackendSync.WithLabelValues("check-user", metrics.OutcomeError).Inc()
		c.logger.Error("Failed to unmarshal check-user response",
			zap.String("wallet_id", walletID),
			zap.ByteString("body", body),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal check-user response: %w", err)
	}

	metrics.BackendSync.WithLabelValues("check-user", metrics.OutcomeOK).Inc()
	return &entity.UserContractStatus{
		WalletID:           walletID,
		IsContractDeployed: resp.IsContractDeployed,
		ContractAddress:    resp.ContractAddress,
	}, nil
}

// UpdateUserContract reports a freshly deployed contract address.
func (c *Client) UpdateUserContract(ctx context.Context, walletID string, contractAddress string) error {
	payload, err := json.Marshal(updateUserContractRequest{
		WalletID:        walletID,
		ContractAddress: contractAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal update-user-contract request: %w", err)
	}

	requestURL := c.baseURL + updateUserContractPath
	if _, err := c.do(ctx, fasthttp.MethodPost, requestURL, payload); err != nil {
		metrics.BackendSync.WithLabelValues("update-user-contract", metrics.OutcomeError).Inc()
		return err
	}

	metrics.BackendSync.WithLabelValues("update-user-contract", metrics.OutcomeOK).Inc()
	return nil
}

// do executes one request, honoring the context deadline when present and
// the client's default timeout otherwise.
func (c *Client) do(ctx context.Context, method, requestURL string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if body != nil {
		req.SetBody(body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err := c.client.DoDeadline(req, resp, deadline)
		if err != nil {
			c.logger.Error("Backend request failed", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("backend request to %s failed: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Backend request failed", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("backend request to %s failed: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Backend request returned non-OK status",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()))
		return nil, fmt.Errorf("backend request to %s failed with status %d: %s",
			requestURL, resp.StatusCode(), string(resp.Body()))
	}

	// resp.Body() is pooled; copy before release.
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}

var _ port.BackendClient = (*Client)(nil)
