package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet_gateway/internal/app/service"
	"wallet_gateway/internal/infrastructure/backendclient"
	"wallet_gateway/internal/infrastructure/configloader"
	"wallet_gateway/internal/infrastructure/notifier"
	"wallet_gateway/internal/infrastructure/restapi"
	"wallet_gateway/internal/infrastructure/sessionstore"
	"wallet_gateway/internal/infrastructure/starknet"
	"wallet_gateway/internal/pkg/utils"
	"wallet_gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge slog callers onto the zap core so everything lands in one stream.
	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))
	if cfg.DevMode {
		zapLogger.Warn("Dev mode is enabled, CRM token gating is bypassed")
	}

	metrics.MustRegisterMetrics()

	connector, err := starknet.New(cfg.Starknet, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Starknet connector", zap.Error(err))
	}
	zapLogger.Info("Starknet connector initialized", zap.String("rpcURL", cfg.Starknet.RPCURL))

	backendTimeout := time.Duration(cfg.Backend.RequestTimeoutMillis) * time.Millisecond
	backendClient := backendclient.New(cfg.Backend.BaseURL, backendTimeout, zapLogger)
	zapLogger.Info("Backend client initialized", zap.String("baseURL", cfg.Backend.BaseURL))

	store := sessionstore.New()
	alerts := notifier.New(zapLogger)

	sessionSvc := service.NewSessionService(connector, store, alerts, cfg, zapLogger)
	deploymentSvc := service.NewDeploymentService(connector, backendClient, cfg, zapLogger)
	zapLogger.Info("Services initialized")

	handler := restapi.NewGatewayHandler(sessionSvc, deploymentSvc, zapLogger)
	router := restapi.SetupRouter(handler)

	// Pprof endpoints, protect these in a production environment.
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
