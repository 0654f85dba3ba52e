package stability

import (
	"math"

	"resilinet/internal/model"
	"resilinet/internal/network"
)

// Grading thresholds. Butterfly risk is the hub's share of total assets in
// percent, entropy the spread of capital ratios across the system.
const (
	fragileButterfly = 20.0
	volatileEntropy  = 5.0
)

// Compute grades the system after a round. The circuit state and the CCP
// accumulators are carried by the caller, Compute only folds them into the
// resulting metrics block.
func Compute(net *network.State, circuit model.CircuitStatus, payoff float64, penalty int64) model.StabilityMetrics {
	m := model.StabilityMetrics{
		NashConvergence: 100,
		Status:          model.SystemStable,
		CCPPayoff:       payoff,
		CCPPenalty:      penalty,
		CircuitStatus:   circuit,
	}

	if hub, ok := net.Hub(); ok {
		if total := net.TotalAssets(); total > 0 {
			b, _ := net.Bank(hub)
			m.ButterflyRisk = round1(b.Assets / total * 100)
		}
	}

	var ratios []float64
	for _, b := range net.Banks() {
		ratios = append(ratios, b.CapitalRatio)
	}
	m.SystemEntropy = round2(stdDev(ratios))

	if m.ButterflyRisk > fragileButterfly {
		m.Status = model.SystemFragile
	}
	if m.SystemEntropy > volatileEntropy {
		m.Status = model.SystemVolatile
	}
	if circuit == model.CircuitHalted {
		m.Status = model.SystemCrashed
	}
	return m
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
