package policy

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"resilinet/internal/model"
	"resilinet/internal/network"
)

func lendingNet(t *testing.T, lenderCapital float64, borrowers ...model.BankNode) *network.State {
	t.Helper()
	banks := []model.BankNode{{ID: "L", Assets: 40_000_000, CapitalRatio: lenderCapital, Status: model.StatusActive}}
	var edges []model.Exposure
	for _, b := range borrowers {
		banks = append(banks, b)
		edges = append(edges, model.Exposure{Lender: "L", Borrower: b.ID, Amount: 100_000})
	}
	net, err := network.New(banks, edges)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestStateFor(t *testing.T) {
	healthy := model.BankNode{ID: "B1", Assets: 1, CapitalRatio: 15, Status: model.StatusActive}
	thin := model.BankNode{ID: "B2", Assets: 1, CapitalRatio: 3.5, Status: model.StatusActive}
	dead := model.BankNode{ID: "B3", Assets: 1, CapitalRatio: 2, Status: model.StatusDefaulted}

	tests := []struct {
		name string
		net  *network.State
		want State
	}{
		{"no borrowers", lendingNet(t, 15), StateSafe},
		{"healthy book", lendingNet(t, 15, healthy), StateSafe},
		{"thin borrower", lendingNet(t, 15, healthy, thin), StateWarning},
		{"own capital thin", lendingNet(t, 4.5, healthy), StateWarning},
		{"defaulted borrower", lendingNet(t, 15, healthy, dead), StateCritical},
	}
	for _, tt := range tests {
		if got := StateFor(tt.net, "L"); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestStateFor_UnknownBank(t *testing.T) {
	net := lendingNet(t, 15)
	if got := StateFor(net, "missing"); got != StateSafe {
		t.Errorf("expected Safe for unknown bank, got %s", got)
	}
}

func TestLearn_TemporalDifferenceUpdate(t *testing.T) {
	a := NewAgent("L")
	a.Learn(StateWarning, ActionHoard, 10, StateSafe)
	// q = 0 + 0.1 * (10 + 0.9*0 - 0)
	if got := a.QTable[StateWarning][ActionHoard]; math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected q=1.0 after first update, got %f", got)
	}

	a.QTable[StateSafe][ActionLend] = 2.0
	a.Learn(StateWarning, ActionHoard, 10, StateSafe)
	// q = 1.0 + 0.1 * (10 + 0.9*2.0 - 1.0)
	want := 1.0 + 0.1*(10+0.9*2.0-1.0)
	if got := a.QTable[StateWarning][ActionHoard]; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected q=%f after second update, got %f", want, got)
	}
}

func TestChooseAction_GreedyWithoutExploration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewAgent("L")
	a.Epsilon = 0

	if got := a.ChooseAction(StateSafe, rng); got != ActionHoard {
		t.Errorf("expected first action on all-zero table, got %s", got)
	}

	a.QTable[StateCritical][ActionBailout] = 3.5
	if got := a.ChooseAction(StateCritical, rng); got != ActionBailout {
		t.Errorf("expected BAILOUT, got %s", got)
	}
}

func TestChooseAction_AlwaysExploresAtFullEpsilon(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewAgent("L")
	a.Epsilon = 1.0
	a.QTable[StateSafe][ActionHoard] = 100

	seen := map[Action]bool{}
	for i := 0; i < 200; i++ {
		seen[a.ChooseAction(StateSafe, rng)] = true
	}
	if len(seen) != 3 {
		t.Errorf("full exploration should reach all actions, saw %v", seen)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brains.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	a := s.Agent("BANK_000")
	a.Learn(StateCritical, ActionBailout, 5, StateWarning)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 agent after reload, got %d", reloaded.Len())
	}
	got := reloaded.Agent("BANK_000").QTable[StateCritical][ActionBailout]
	want := s.Agent("BANK_000").QTable[StateCritical][ActionBailout]
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("q value lost in round trip: %f vs %f", got, want)
	}
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d agents", s.Len())
	}
	if a := s.Agent("X"); a.Epsilon != 0.2 {
		t.Errorf("fresh agent should use default epsilon, got %f", a.Epsilon)
	}
}
