package configloader

import (
	"fmt"
	"os"

	"wallet_gateway/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// StarknetConfig holds the node endpoints and contract addresses the
// connector uses.
type StarknetConfig struct {
	// RPCURL is the primary node endpoint; FallbackRPCURLs are tried in
	// order when the primary cannot be reached.
	RPCURL          string   `yaml:"rpcURL"`
	FallbackRPCURLs []string `yaml:"fallbackRpcURLs"`

	RPCTimeoutMs int64 `yaml:"rpcTimeoutMs"`

	// Requests per second and burst for the node rate limiter. Zero
	// disables limiting.
	RateLimit  int `yaml:"rateLimit"`
	BurstLimit int `yaml:"burstLimit"`

	// AccountAddress is the wallet account the gateway acts for. Empty
	// means no wallet is available and Connect reports wallet-not-found.
	AccountAddress string `yaml:"accountAddress"`

	// CRMTokenAddress is the token contract gating dashboard access.
	CRMTokenAddress string `yaml:"crmTokenAddress"`

	// Tokens overrides the built-in ETH/USDC/STRK registry when set.
	Tokens []entity.TokenInfo `yaml:"tokens"`

	// Deploy is the static contract-account deployment payload.
	Deploy entity.DeployPayload `yaml:"deploy"`

	// MaxFee caps the fee of deployment transactions, as a hex felt.
	MaxFee string `yaml:"maxFee"`

	// WaitPollIntervalMs is the receipt polling interval for
	// WaitForTransaction.
	WaitPollIntervalMs int64 `yaml:"waitPollIntervalMs"`
}

// BackendConfig holds the dashboard backend API configuration.
type BackendConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Starknet StarknetConfig `yaml:"starknet"`
	Backend  BackendConfig  `yaml:"backend"`

	// DevMode bypasses the CRM-token gate entirely. Overridable with the
	// DEV_MODE environment variable.
	DevMode bool `yaml:"devMode"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and applies defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if v := os.Getenv("DEV_MODE"); v == "1" || v == "true" {
		cfg.DevMode = true
		logrus.Warn("DEV_MODE environment override active: CRM token gate is bypassed")
	}

	if cfg.Starknet.RPCURL == "" {
		return nil, fmt.Errorf("starknet.rpcURL must be set in %s", path)
	}
	if cfg.Starknet.CRMTokenAddress == "" && !cfg.DevMode {
		return nil, fmt.Errorf("starknet.crmTokenAddress must be set in %s (or enable devMode)", path)
	}
	if cfg.Starknet.Deploy.ClassHash == "" {
		return nil, fmt.Errorf("starknet.deploy.classHash must be set in %s", path)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Starknet.RPCTimeoutMs <= 0 {
		cfg.Starknet.RPCTimeoutMs = 10000
		logrus.Infof("starknet.rpcTimeoutMs not set, defaulting to %d ms", cfg.Starknet.RPCTimeoutMs)
	}
	if cfg.Starknet.WaitPollIntervalMs <= 0 {
		cfg.Starknet.WaitPollIntervalMs = 3000
	}
	if cfg.Starknet.MaxFee == "" {
		cfg.Starknet.MaxFee = "0x0"
	}
	if len(cfg.Starknet.Tokens) == 0 {
		cfg.Starknet.Tokens = entity.DefaultTokens
		logrus.Info("starknet.tokens not set, using built-in mainnet token registry")
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:3000"
		logrus.Infof("backend.baseURL not set, defaulting to %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeoutMillis <= 0 {
		cfg.Backend.RequestTimeoutMillis = 10000
	}
}
