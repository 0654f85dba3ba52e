package oracle

import (
	"resilinet/internal/history"
	"resilinet/internal/model"
	"resilinet/internal/network"
)

// Feature scaling. Degrees are normalized against a nominal maximum of 20
// connections, toxic exposure uses a small base so an isolated lender does
// not divide by zero.
const (
	degreeNorm      = 20.0
	exposureBase    = 0.1
	toxicCapital    = 6.0
	edgeWeightScale = 50_000.0
)

// Features is the per-bank vector every scoring backend consumes.
type Features struct {
	Assets    float64 `json:"assets"`
	Leverage  float64 `json:"leverage"`
	Degree    float64 `json:"degree"`
	Strategy  float64 `json:"strategy"`
	Contagion float64 `json:"contagion"`
	RiskSlope float64 `json:"risk_slope"`
}

// ExtractFeatures derives the scoring vector for every bank. Contagion is
// the share of outgoing exposure lent to defaulted or badly capitalized
// borrowers, RiskSlope the capital delta since the last recorded round.
func ExtractFeatures(net *network.State, hist *history.Store) map[string]Features {
	maxAssets := net.MaxAssets()
	out := make(map[string]Features, net.Len())

	for _, b := range net.Banks() {
		f := Features{
			Assets:   b.Assets / maxAssets,
			Leverage: 1.0 / (b.CapitalRatio + 0.1),
			Degree:   float64(net.Degree(b.ID)) / degreeNorm,
			Strategy: b.Strategy,
		}

		var bad float64
		total := exposureBase
		for _, borrower := range net.Successors(b.ID) {
			amt := net.EdgeAmount(b.ID, borrower)
			total += amt
			nbr, ok := net.Bank(borrower)
			if ok && (nbr.Defaulted() || nbr.CapitalRatio < toxicCapital) {
				bad += amt
			}
		}
		f.Contagion = bad / total

		if last, ok := hist.Last(b.ID); ok {
			f.RiskSlope = b.CapitalRatio - last.Health
		}
		out[b.ID] = f
	}
	return out
}

// edgeWeight compresses an exposure amount into [0,1] for wire payloads.
func edgeWeight(e model.Exposure) float64 {
	w := e.Amount / edgeWeightScale
	if w > 1 {
		w = 1
	}
	return w
}
