package model

// StabilityStatus grades the overall condition of the system.
type StabilityStatus string

const (
	SystemStable   StabilityStatus = "STABLE"
	SystemFragile  StabilityStatus = "FRAGILE"
	SystemVolatile StabilityStatus = "VOLATILE"
	SystemCrashed  StabilityStatus = "CRASHED"
)

// CircuitStatus is the state of the market-wide circuit breaker.
// The transition OPEN -> HALTED is one way.
type CircuitStatus string

const (
	CircuitOpen   CircuitStatus = "OPEN"
	CircuitHalted CircuitStatus = "HALTED"
)

// StabilityMetrics is the system-level summary recomputed after every round.
type StabilityMetrics struct {
	NashConvergence int             `json:"nash_convergence"`
	ButterflyRisk   float64         `json:"butterfly_risk"`
	SystemEntropy   float64         `json:"system_entropy"`
	Status          StabilityStatus `json:"status"`
	CCPPayoff       float64         `json:"ccp_payoff"`
	CCPPenalty      int64           `json:"ccp_penalty"`
	CircuitStatus   CircuitStatus   `json:"circuit_status"`
}

// InitialStability is the metrics block a freshly initialized system reports.
func InitialStability() StabilityMetrics {
	return StabilityMetrics{
		NashConvergence: 100,
		Status:          SystemStable,
		CircuitStatus:   CircuitOpen,
	}
}
