package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// WalletConnects counts session establishment attempts by outcome.
	WalletConnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_wallet_connects_total",
			Help: "Wallet session establishment attempts.",
		},
		[]string{"outcome"},
	)

	// ContractReads counts read-only contract calls by token symbol and
	// outcome.
	ContractReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_contract_reads_total",
			Help: "Read-only contract calls (balanceOf).",
		},
		[]string{"token", "outcome"},
	)

	// Deployments counts contract-account deployment attempts by outcome.
	Deployments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_contract_deployments_total",
			Help: "Contract account deployment attempts.",
		},
		[]string{"outcome"},
	)

	// BackendSync counts backend API calls by endpoint and outcome.
	BackendSync = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_backend_sync_total",
			Help: "Backend status and update calls.",
		},
		[]string{"endpoint", "outcome"},
	)
)

// MustRegisterMetrics registers all gateway collectors with the default
// registry. Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(WalletConnects, ContractReads, Deployments, BackendSync)
}
