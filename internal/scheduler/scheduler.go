// Package scheduler drives the simulation on a fixed cadence.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"resilinet/internal/sim"
)

// StepFunc advances the simulation one round at the given panic level.
type StepFunc func(panicLevel float64) error

// Autopilot steps the market on a cron cadence so the system keeps moving
// without an operator driving it.
type Autopilot struct {
	cron       *cron.Cron
	step       StepFunc
	panicLevel float64
	log        *zap.Logger
}

func NewAutopilot(step StepFunc, panicLevel float64, log *zap.Logger) *Autopilot {
	return &Autopilot{
		cron:       cron.New(cron.WithSeconds()),
		step:       step,
		panicLevel: panicLevel,
		log:        log,
	}
}

// Register schedules the stepping task. Expressions use the six field
// cron format with seconds.
func (a *Autopilot) Register(spec string) error {
	if _, err := a.cron.AddFunc(spec, a.tick); err != nil {
		return fmt.Errorf("register autopilot task: %w", err)
	}
	return nil
}

func (a *Autopilot) tick() {
	err := a.step(a.panicLevel)
	switch {
	case errors.Is(err, sim.ErrNotInitialized):
		a.log.Debug("autopilot idle, simulation not initialized")
	case errors.Is(err, sim.ErrHalted):
		a.log.Debug("autopilot idle, market halted")
	case err != nil:
		a.log.Error("autopilot step failed", zap.Error(err))
	}
}

// Start starts the cron scheduler.
func (a *Autopilot) Start() {
	a.cron.Start()
	a.log.Info("autopilot started", zap.Float64("panic_level", a.panicLevel))
}

// Stop stops the cron scheduler and waits for a running step to finish.
func (a *Autopilot) Stop() {
	<-a.cron.Stop().Done()
	a.log.Info("autopilot stopped")
}
