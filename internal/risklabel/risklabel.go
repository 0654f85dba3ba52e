package risklabel

import (
	"math/rand"

	"resilinet/internal/model"
)

// Dashboard palette.
const (
	ColorSafe     = "#06b6d4"
	ColorVIP      = "#3b82f6"
	ColorWarning  = "#eab308"
	ColorCritical = "#ef4444"
	ColorCCP      = "#d946ef"
	ColorLinkCalm = "#1e293b"
)

// Labeling calibration. During the warmup rounds the oracle signal is
// replaced by a flat baseline so the board does not flicker on noise.
const (
	warmupRounds  = 2
	baselineProb  = 0.10
	warnProb      = 0.50
	vipThreshold  = 0.08
	warnBandLow   = 0.60
	warnBandHigh  = 0.85
	critBandLow   = 0.90
	critBandHigh  = 0.99
)

// Assessment is the advisory verdict for one bank. It drives coloring and
// history only and never feeds back into solvency.
type Assessment struct {
	Label model.RiskLabel
	Color string
	Prob  float64
}

// Assess labels a bank from its oracle score and balance sheet. A displayed
// probability is resampled into the matching band whenever a threshold
// overrides the raw score, so the board always shows numbers consistent
// with the label.
func Assess(b *model.BankNode, rawProb float64, round int, rng *rand.Rand) Assessment {
	a := Assessment{Label: model.RiskSafe, Color: ColorSafe, Prob: rawProb}
	if round <= warmupRounds {
		a.Prob = baselineProb
	}

	if a.Prob > warnProb || b.CapitalRatio < model.BaselRequirement {
		a.Label = model.RiskUnderCapitalized
		a.Color = ColorWarning
		a.Prob = warnBandLow + rng.Float64()*(warnBandHigh-warnBandLow)
	}
	if b.Defaulted() || b.CapitalRatio < model.InsolvencyLimit {
		a.Label = model.RiskInsolvent
		a.Color = ColorCritical
		a.Prob = critBandLow + rng.Float64()*(critBandHigh-critBandLow)
	}

	if a.Label == model.RiskSafe && b.VIPScore > vipThreshold {
		a.Color = ColorVIP
	}
	return a
}

// LinkStress grades an exposure link from its endpoint labels. Any risky
// endpoint taints the link.
func LinkStress(src, dst model.RiskLabel) (model.StressLevel, string) {
	if src != model.RiskSafe || dst != model.RiskSafe {
		return model.StressContagion, ColorCritical
	}
	return model.StressNormal, ColorLinkCalm
}
