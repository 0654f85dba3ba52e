package oracle

import (
	"context"

	"resilinet/internal/history"
	"resilinet/internal/network"
)

// Heuristic weights. Contagion exposure and leverage dominate, a falling
// capital ratio adds momentum, big balance sheets buy a small discount.
const (
	wContagion   = 0.45
	wLeverage    = 0.40
	leverageGain = 5.0
	wSlope       = 0.10
	slopeWindow  = 5.0
	wStrategy    = 0.05
	wDegree      = 0.03
	wAssets      = 0.03
)

// Heuristic scores banks locally from the same feature vectors the remote
// model consumes. It is deterministic and never fails, which makes it the
// standard in-process backend.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Predict(_ context.Context, net *network.State, hist *history.Store) (map[string]float64, error) {
	features := ExtractFeatures(net, hist)
	scores := make(map[string]float64, len(features))
	for id, f := range features {
		scores[id] = Score(f)
	}
	return scores, nil
}

// Score maps one feature vector to a default probability in [0,1].
func Score(f Features) float64 {
	drop := 0.0
	if f.RiskSlope < 0 {
		drop = clamp01(-f.RiskSlope / slopeWindow)
	}
	s := wContagion*f.Contagion +
		wLeverage*clamp01(f.Leverage*leverageGain) +
		wSlope*drop +
		wStrategy*f.Strategy +
		wDegree*clamp01(f.Degree) -
		wAssets*f.Assets
	return clamp01(s)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
