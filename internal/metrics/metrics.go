package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RoundsTotal counts committed simulation rounds since process start.
var RoundsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "resilinet_rounds_total",
		Help: "Total number of committed simulation rounds",
	},
)

// ResetsTotal counts full system initializations.
var ResetsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "resilinet_resets_total",
		Help: "Total number of system resets",
	},
)

// StepDuration records latency distribution for a full round pipeline.
var StepDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "resilinet_step_duration_seconds",
		Help:    "Latency in seconds to run one simulation round",
		Buckets: prometheus.DefBuckets,
	},
)

// Contagion counters.
var (
	DefaultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resilinet_defaults_total",
			Help: "Total number of bank defaults across all rounds",
		},
	)

	ShocksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resilinet_shocks_total",
			Help: "Total number of exogenous shocks applied",
		},
	)

	OracleFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resilinet_oracle_failures_total",
			Help: "Total number of oracle calls that fell back to baseline scoring",
		},
	)
)

// Clearing house counters.
var (
	ClearedVolumeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resilinet_cleared_volume_total",
			Help: "Cumulative exposure volume cleared by the CCP",
		},
	)

	RejectedPenaltyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resilinet_rejected_penalty_total",
			Help: "Cumulative penalties charged on rejected transactions",
		},
	)
)

// System state gauges, refreshed after every round.
var (
	ActiveBanks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilinet_active_banks",
			Help: "Number of banks still active",
		},
	)

	DefaultedBanks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilinet_defaulted_banks",
			Help: "Number of banks in default",
		},
	)

	SystemEntropy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilinet_system_entropy",
			Help: "Spread of capital ratios across the system",
		},
	)

	ButterflyRisk = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilinet_butterfly_risk",
			Help: "Hub share of total assets in percent",
		},
	)

	CircuitHalted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "resilinet_circuit_halted",
			Help: "1 when the market circuit breaker has fired",
		},
	)
)

func init() {
	prometheus.MustRegister(RoundsTotal, ResetsTotal, StepDuration)
	prometheus.MustRegister(DefaultsTotal, ShocksTotal, OracleFailures)
	prometheus.MustRegister(ClearedVolumeTotal, RejectedPenaltyTotal)
	prometheus.MustRegister(ActiveBanks, DefaultedBanks, SystemEntropy, ButterflyRisk, CircuitHalted)
}
