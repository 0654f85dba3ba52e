package dataset

import (
	"math/rand"

	"go.uber.org/zap"

	"resilinet/internal/model"
)

// Source supplies the banks and exposures a simulation initializes from.
type Source interface {
	Name() string
	Load() ([]model.BankNode, []model.Exposure, error)
}

// AutoSource prefers the configured CSV and falls back to the synthetic
// fortress economy when the file is absent or unreadable. Reset always
// succeeds as long as the generator does.
type AutoSource struct {
	csv       *CSVSource
	synthetic *SyntheticSource
	log       *zap.Logger
}

// NewAuto wires the standard loading chain. An empty csvPath skips the
// file entirely.
func NewAuto(csvPath string, rng *rand.Rand, log *zap.Logger) *AutoSource {
	s := &AutoSource{synthetic: NewSynthetic(rng), log: log}
	if csvPath != "" {
		s.csv = NewCSV(csvPath, rng)
	}
	return s
}

func (s *AutoSource) Name() string { return "auto" }

func (s *AutoSource) Load() ([]model.BankNode, []model.Exposure, error) {
	if s.csv != nil {
		banks, exposures, err := s.csv.Load()
		if err == nil {
			return banks, exposures, nil
		}
		s.log.Warn("csv dataset unavailable, generating synthetic economy",
			zap.String("path", s.csv.Path),
			zap.Error(err))
	}
	return s.synthetic.Load()
}
