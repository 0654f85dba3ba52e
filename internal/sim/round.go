package sim

import (
	"math"

	"resilinet/internal/model"
)

// Round pipeline calibration. Income scales with strategy appetite, losses
// with system panic. Capital changes are net profit over a fixed scale and
// capital is capped, banks cannot grow out of the game.
const (
	incomeBase         = 0.04
	incomeStrategyGain = 0.05
	lossRate           = 0.05
	capitalScale       = 2_000_000.0
	capitalCeiling     = 20.0

	shockGate        = 0.25
	shockBaseDamage  = 5.0
	shockPanicDamage = 5.0

	nashRiskOnAvg   = 13.0
	nashRiskOffAvg  = 10.0
	nashRiskOnStep  = 0.1
	nashRiskOffStep = 0.2
	nashEpsilon     = 0.01

	circuitTrigger = 0.30
)

type defaultEvent struct {
	id      string
	capital float64
}

// applyProfits runs the earnings pass. Defaulted banks sit out with zero
// profit. The loss draw happens for every active bank regardless of panic,
// which keeps a fixed seed reproducible across panic levels.
func (s *Simulation) applyProfits(w *world, panicLevel float64) {
	for _, b := range w.net.Banks() {
		if b.Defaulted() {
			b.LastProfit = 0
			continue
		}
		income := b.Assets * (incomeBase + b.Strategy*incomeStrategyGain)
		var loss float64
		if s.rng.Float64() < panicLevel {
			loss = b.Assets * panicLevel * lossRate
		}
		net := income - loss
		b.LastProfit = net
		b.CapitalRatio = math.Min(capitalCeiling, b.CapitalRatio+net/capitalScale)
	}
}

// applyShock maybe hits one uniformly chosen bank with capital damage.
// Panic below the gate never shocks.
func (s *Simulation) applyShock(w *world, panicLevel float64) (string, bool) {
	shockProb := math.Max(0, panicLevel-shockGate)
	if s.rng.Float64() >= shockProb {
		return "", false
	}
	ids := w.net.IDs()
	victim := ids[s.rng.Intn(len(ids))]
	b, _ := w.net.Bank(victim)
	b.CapitalRatio -= shockBaseDamage + panicLevel*shockPanicDamage
	return victim, true
}

// applyNash lets every lender reprice its appetite from the average health
// of its borrowers. Banks without borrowers keep their previous action tag.
func (s *Simulation) applyNash(w *world) int {
	changes := 0
	for _, b := range w.net.Banks() {
		borrowers := w.net.Successors(b.ID)
		if len(borrowers) == 0 {
			continue
		}
		var sum float64
		for _, id := range borrowers {
			nbr, _ := w.net.Bank(id)
			sum += nbr.CapitalRatio
		}
		avg := sum / float64(len(borrowers))

		next := b.Strategy
		switch {
		case avg > nashRiskOnAvg:
			next = math.Min(1.0, b.Strategy+nashRiskOnStep)
			b.NashAction = model.ActionRiskOn
		case avg < nashRiskOffAvg:
			next = math.Max(0.0, b.Strategy-nashRiskOffStep)
			b.NashAction = model.ActionRiskOff
		default:
			b.NashAction = model.ActionHold
		}
		if math.Abs(next-b.Strategy) > nashEpsilon {
			b.Strategy = next
			changes++
		}
	}
	return changes
}

// detectDefaults marks every active bank at or below the insolvency limit
// as failed. Counts cover the whole book, including earlier defaults.
func (s *Simulation) detectDefaults(w *world) (active, defaulted int, fresh []defaultEvent) {
	for _, b := range w.net.Banks() {
		if b.Defaulted() {
			defaulted++
			continue
		}
		if b.CapitalRatio <= model.InsolvencyLimit {
			b.Status = model.StatusDefaulted
			defaulted++
			fresh = append(fresh, defaultEvent{id: b.ID, capital: b.CapitalRatio})
			continue
		}
		active++
	}
	return active, defaulted, fresh
}
