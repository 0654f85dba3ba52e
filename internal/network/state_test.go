package network

import (
	"errors"
	"math"
	"testing"

	"resilinet/internal/model"
)

func testBanks(ids ...string) []model.BankNode {
	banks := make([]model.BankNode, 0, len(ids))
	for _, id := range ids {
		banks = append(banks, model.BankNode{
			ID:           id,
			Assets:       40_000_000,
			CapitalRatio: 15.0,
			Strategy:     0.5,
			Status:       model.StatusActive,
		})
	}
	return banks
}

func edge(lender, borrower string, amount float64) model.Exposure {
	return model.Exposure{Lender: lender, Borrower: borrower, Amount: amount, InterestRate: 0.03}
}

func TestNew_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		banks []model.BankNode
		edges []model.Exposure
	}{
		{"no banks", nil, nil},
		{"empty id", []model.BankNode{{ID: ""}}, nil},
		{"duplicate bank", testBanks("A", "A"), nil},
		{"unknown lender", testBanks("A", "B"), []model.Exposure{edge("X", "B", 100)}},
		{"unknown borrower", testBanks("A", "B"), []model.Exposure{edge("A", "X", 100)}},
		{"self exposure", testBanks("A", "B"), []model.Exposure{edge("A", "A", 100)}},
		{"negative amount", testBanks("A", "B"), []model.Exposure{edge("A", "B", -1)}},
		{"duplicate edge", testBanks("A", "B"), []model.Exposure{edge("A", "B", 100), edge("A", "B", 200)}},
	}
	for _, tt := range tests {
		_, err := New(tt.banks, tt.edges)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %T", tt.name, err)
		}
	}
}

func TestNew_NormalizesZeroValues(t *testing.T) {
	s, err := New([]model.BankNode{{ID: "A", Assets: 1, CapitalRatio: 10}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.Bank("A")
	if b.Status != model.StatusActive {
		t.Errorf("expected Active status, got %q", b.Status)
	}
	if b.NashAction != model.ActionHold {
		t.Errorf("expected HOLD action, got %q", b.NashAction)
	}
}

func TestNew_PreservesInsertionOrder(t *testing.T) {
	s, err := New(testBanks("C", "A", "B"), []model.Exposure{
		edge("C", "A", 100),
		edge("A", "B", 200),
	})
	if err != nil {
		t.Fatal(err)
	}
	ids := s.IDs()
	want := []string{"C", "A", "B"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("order mismatch at %d: expected %s, got %s", i, id, ids[i])
		}
	}
	edges := s.Edges()
	if edges[0].Lender != "C" || edges[1].Lender != "A" {
		t.Error("edge order does not match insertion order")
	}
}

func TestInduce_KeepsFirstBanksAndInnerEdges(t *testing.T) {
	s, err := New(testBanks("A", "B", "C", "D"), []model.Exposure{
		edge("A", "B", 100),
		edge("C", "D", 200),
		edge("B", "C", 300),
		edge("A", "D", 400),
	})
	if err != nil {
		t.Fatal(err)
	}
	sub := s.Induce(3)
	if sub.Len() != 3 {
		t.Fatalf("expected 3 banks, got %d", sub.Len())
	}
	if _, ok := sub.Bank("D"); ok {
		t.Error("bank D should be dropped")
	}
	if len(sub.Edges()) != 2 {
		t.Errorf("expected 2 surviving edges, got %d", len(sub.Edges()))
	}
	for _, e := range sub.Edges() {
		if e.Lender == "D" || e.Borrower == "D" {
			t.Errorf("edge %s->%s references dropped bank", e.Lender, e.Borrower)
		}
	}
}

func TestInduce_NoOpWhenCoveringWholeGraph(t *testing.T) {
	s, _ := New(testBanks("A", "B"), nil)
	if s.Induce(5) != s {
		t.Error("expected same state when n exceeds size")
	}
	if s.Induce(0) != s {
		t.Error("expected same state for n = 0")
	}
}

func TestDegreeCentrality(t *testing.T) {
	s, err := New(testBanks("A", "B", "C"), []model.Exposure{
		edge("A", "B", 100),
		edge("A", "C", 100),
	})
	if err != nil {
		t.Fatal(err)
	}
	c := s.DegreeCentrality()
	if got := c["A"]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("centrality A: expected 1.0, got %f", got)
	}
	if got := c["B"]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("centrality B: expected 0.5, got %f", got)
	}
}

func TestHub_PicksHighestDegreeFirstOnTie(t *testing.T) {
	s, err := New(testBanks("A", "B", "C"), []model.Exposure{
		edge("A", "B", 100),
		edge("B", "C", 100),
	})
	if err != nil {
		t.Fatal(err)
	}
	// A and C have degree 1, B has degree 2.
	hub, ok := s.Hub()
	if !ok || hub != "B" {
		t.Fatalf("expected hub B, got %s", hub)
	}

	tied, _ := New(testBanks("A", "B"), []model.Exposure{edge("A", "B", 100)})
	hub, _ = tied.Hub()
	if hub != "A" {
		t.Errorf("expected first bank on tie, got %s", hub)
	}
}

func TestComputeVIPScores(t *testing.T) {
	s, err := New([]model.BankNode{
		{ID: "A", Assets: 40_000_000, CapitalRatio: 15},
		{ID: "B", Assets: 80_000_000, CapitalRatio: 15},
	}, []model.Exposure{edge("A", "B", 100)})
	if err != nil {
		t.Fatal(err)
	}
	s.ComputeVIPScores()
	a, _ := s.Bank("A")
	want := 40_000_000.0/80_000_000.0 + 1*0.03
	if math.Abs(a.VIPScore-want) > 1e-9 {
		t.Errorf("vip A: expected %f, got %f", want, a.VIPScore)
	}
}

func TestSensitivity(t *testing.T) {
	s, err := New([]model.BankNode{
		{ID: "A", Assets: 1, CapitalRatio: 9.9},
		{ID: "B", Assets: 1, CapitalRatio: 0.1},
	}, []model.Exposure{edge("A", "B", 100)})
	if err != nil {
		t.Fatal(err)
	}
	// leverage = 20/10 = 2, degree 1 → 2/80
	if got := s.Sensitivity("A"); math.Abs(got-0.025) > 1e-9 {
		t.Errorf("expected 0.025, got %f", got)
	}
	// leverage = 20/0.2 = 100, must cap at 1
	if got := s.Sensitivity("B"); got != 1.0 {
		t.Errorf("expected cap at 1.0, got %f", got)
	}
	if got := s.Sensitivity("missing"); got != 0 {
		t.Errorf("expected 0 for unknown bank, got %f", got)
	}
}

func TestClone_IsIsolated(t *testing.T) {
	s, err := New(testBanks("A", "B"), []model.Exposure{edge("A", "B", 100)})
	if err != nil {
		t.Fatal(err)
	}
	c := s.Clone()
	cb, _ := c.Bank("A")
	cb.CapitalRatio = 1.0
	cb.Status = model.StatusDefaulted

	orig, _ := s.Bank("A")
	if orig.CapitalRatio != 15.0 {
		t.Errorf("clone mutation leaked into original: %f", orig.CapitalRatio)
	}
	if orig.Status != model.StatusActive {
		t.Error("clone status mutation leaked into original")
	}
	if c.DefaultedCount() != 1 || s.DefaultedCount() != 0 {
		t.Error("defaulted counts should diverge after clone mutation")
	}
}
