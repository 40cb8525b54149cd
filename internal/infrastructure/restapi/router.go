package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures the gin engine with the gateway routes.
func SetupRouter(handler *GatewayHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/session/connect", handler.ConnectHandler)
		v1.POST("/session/logout", handler.LogoutHandler)
		v1.GET("/session/crm-token/:address", handler.CRMTokenHandler)
		v1.GET("/balances/:address", handler.BalancesHandler)
		v1.GET("/balance-rows/:walletId", handler.BalanceRowsHandler)
		v1.POST("/contracts/deploy", handler.DeployHandler)
		v1.POST("/contracts/deploy/force", handler.ForceDeployHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
