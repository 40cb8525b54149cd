package restapi

import (
	"errors"
	"net/http"

	"wallet_gateway/internal/app/port"
	"wallet_gateway/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GatewayHandler handles the dashboard-facing HTTP endpoints.
type GatewayHandler struct {
	sessions    port.SessionService
	deployments port.DeploymentService
	logger      *zap.Logger
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(sessions port.SessionService, deployments port.DeploymentService, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		sessions:    sessions,
		deployments: deployments,
		logger:      logger.Named("GatewayHandler"),
	}
}

// ConnectHandler establishes a wallet session.
func (h *GatewayHandler) ConnectHandler(c *gin.Context) {
	address, err := h.sessions.Connect(c.Request.Context())
	if err != nil {
		c.JSON(statusForWalletError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}

// LogoutHandler clears the persisted wallet id.
func (h *GatewayHandler) LogoutHandler(c *gin.Context) {
	h.sessions.Logout()
	c.Status(http.StatusNoContent)
}

// CRMTokenHandler reports whether the address passes the CRM token gate.
func (h *GatewayHandler) CRMTokenHandler(c *gin.Context) {
	address := c.Param("address")
	hasToken, err := h.sessions.CheckForCRMToken(c.Request.Context(), address)
	if err != nil {
		c.JSON(statusForWalletError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasToken": hasToken})
}

// BalancesHandler returns the raw token balances for an address.
func (h *GatewayHandler) BalancesHandler(c *gin.Context) {
	address := c.Param("address")
	balances, err := h.sessions.GetTokenBalances(c.Request.Context(), address)
	if err != nil {
		c.JSON(statusForWalletError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// BalanceRowsHandler returns the presentation-ready balance rows. A fetch
// failure is deliberately not an HTTP error: the rows degrade to defaults so
// the dashboard keeps rendering.
func (h *GatewayHandler) BalanceRowsHandler(c *gin.Context) {
	walletID := c.Param("walletId")
	rows, err := h.sessions.GetBalanceRows(c.Request.Context(), walletID)
	if err != nil {
		h.logger.Warn("Balance rows degraded to defaults", zap.String("walletId", walletID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

type deployRequest struct {
	WalletID string `json:"wallet_id" binding:"required"`
}

// ForceDeployHandler deploys unconditionally, skipping the backend
// deployed-already check.
func (h *GatewayHandler) ForceDeployHandler(c *gin.Context) {
	var req deployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.deployments.DeployContract(c.Request.Context(), req.WalletID)
	if err != nil {
		c.JSON(statusForWalletError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deployment": result})
}

// DeployHandler runs the check-and-deploy flow for a wallet.
func (h *GatewayHandler) DeployHandler(c *gin.Context) {
	var req deployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, result, err := h.deployments.CheckAndDeployContract(c.Request.Context(), req.WalletID)
	if err != nil {
		body := gin.H{"error": err.Error()}
		if result != nil {
			// deployment landed on-chain but the backend sync failed
			body["deployment"] = result
		}
		c.JSON(statusForWalletError(err), body)
		return
	}

	body := gin.H{"status": status}
	if result != nil {
		body["deployment"] = result
	}
	c.JSON(http.StatusOK, body)
}

// statusForWalletError maps the session sentinel errors to client-facing
// status codes; everything else is a server-side failure.
func statusForWalletError(err error) int {
	switch {
	case errors.Is(err, entity.ErrWalletNotFound),
		errors.Is(err, entity.ErrWalletNotConnected),
		errors.Is(err, entity.ErrNoAddress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
