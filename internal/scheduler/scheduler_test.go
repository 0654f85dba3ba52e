package scheduler

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"resilinet/internal/sim"
)

func TestRegister_SixFieldSpec(t *testing.T) {
	a := NewAutopilot(func(float64) error { return nil }, 0.2, zap.NewNop())
	if err := a.Register("*/2 * * * * *"); err != nil {
		t.Fatalf("six field expression rejected: %v", err)
	}
}

func TestRegister_MalformedSpec(t *testing.T) {
	a := NewAutopilot(func(float64) error { return nil }, 0.2, zap.NewNop())
	if err := a.Register("every other tuesday"); err == nil {
		t.Fatal("malformed expression accepted")
	}
}

func TestTick_PassesPanicLevel(t *testing.T) {
	var got float64
	a := NewAutopilot(func(p float64) error { got = p; return nil }, 0.35, zap.NewNop())
	a.tick()
	if got != 0.35 {
		t.Errorf("expected panic level 0.35, got %f", got)
	}
}

func TestTick_ToleratesIdleSimulation(t *testing.T) {
	calls := 0
	a := NewAutopilot(func(float64) error {
		calls++
		if calls == 1 {
			return sim.ErrNotInitialized
		}
		return sim.ErrHalted
	}, 0.2, zap.NewNop())

	a.tick()
	a.tick()
	if calls != 2 {
		t.Errorf("expected 2 step attempts, got %d", calls)
	}
}

func TestStartStop_FiresRegisteredTask(t *testing.T) {
	fired := make(chan struct{}, 1)
	a := NewAutopilot(func(float64) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, 0.2, zap.NewNop())

	if err := a.Register("* * * * * *"); err != nil {
		t.Fatal(err)
	}
	a.Start()
	defer a.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("registered task never fired")
	}
}
