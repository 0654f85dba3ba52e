package dataset

import (
	"fmt"
	"math/rand"

	"resilinet/internal/model"
)

// The synthetic fortress economy: a small dense market of very rich banks
// with thick capital buffers, so fresh systems start visibly stable.
const (
	fortressBanks    = 15
	fortressEdges    = 40
	amountMin        = 50_000
	amountMax        = 2_000_000
	rateMin          = 0.02
	rateMax          = 0.05
	assetsMin        = 30_000_000
	assetsMax        = 80_000_000
	capitalMin       = 14.5
	capitalMax       = 18.5
	fortressStrategy = 0.6
)

// SyntheticSource generates the fortress economy from the injected
// randomness source. Every generated edge pair is unique.
type SyntheticSource struct {
	rng *rand.Rand
}

func NewSynthetic(rng *rand.Rand) *SyntheticSource {
	return &SyntheticSource{rng: rng}
}

func (s *SyntheticSource) Name() string { return "synthetic" }

func (s *SyntheticSource) Load() ([]model.BankNode, []model.Exposure, error) {
	ids := make([]string, fortressBanks)
	for i := range ids {
		ids[i] = fmt.Sprintf("BANK_%03d", i)
	}

	seen := make(map[[2]string]bool, fortressEdges)
	exposures := make([]model.Exposure, 0, fortressEdges)
	for len(exposures) < fortressEdges {
		u := s.rng.Intn(fortressBanks)
		v := s.rng.Intn(fortressBanks - 1)
		if v >= u {
			v++
		}
		key := [2]string{ids[u], ids[v]}
		if seen[key] {
			continue
		}
		seen[key] = true
		exposures = append(exposures, model.Exposure{
			Lender:       ids[u],
			Borrower:     ids[v],
			Amount:       float64(amountMin + s.rng.Intn(amountMax-amountMin)),
			InterestRate: rateMin + s.rng.Float64()*(rateMax-rateMin),
		})
	}

	banks := make([]model.BankNode, 0, fortressBanks)
	for _, id := range ids {
		banks = append(banks, model.BankNode{
			ID:           id,
			Assets:       float64(assetsMin + s.rng.Intn(assetsMax-assetsMin)),
			CapitalRatio: capitalMin + s.rng.Float64()*(capitalMax-capitalMin),
			Strategy:     fortressStrategy,
			Status:       model.StatusActive,
			VIPScore:     s.rng.Float64(),
		})
	}
	return banks, exposures, nil
}
