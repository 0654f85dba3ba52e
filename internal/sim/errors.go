package sim

import "errors"

var (
	// ErrNotInitialized is returned when a round is requested before the
	// system has been reset with a dataset.
	ErrNotInitialized = errors.New("simulation not initialized")

	// ErrHalted is returned once the circuit breaker has fired. The halt
	// is terminal, only a reset produces a running system again.
	ErrHalted = errors.New("market halted by circuit breaker")
)
