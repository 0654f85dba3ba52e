package oracle

import (
	"context"
	"errors"

	"resilinet/internal/history"
	"resilinet/internal/network"
)

// ErrUnavailable is returned when a scoring backend cannot produce a
// verdict. The simulation treats it as "no signal" and falls back to
// threshold-only labeling.
var ErrUnavailable = errors.New("risk oracle unavailable")

// Oracle scores each bank's default probability for the current round.
// Implementations must not mutate the network or the history.
type Oracle interface {
	Name() string
	Predict(ctx context.Context, net *network.State, hist *history.Store) (map[string]float64, error)
}

// Noop is the oracle used when scoring is disabled. It reports no scores,
// leaving every bank at a raw probability of zero.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Predict(context.Context, *network.State, *history.Store) (map[string]float64, error) {
	return nil, nil
}
