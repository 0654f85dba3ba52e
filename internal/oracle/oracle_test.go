package oracle

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resilinet/internal/history"
	"resilinet/internal/model"
	"resilinet/internal/network"
)

func buildNet(t *testing.T, banks []model.BankNode, edges []model.Exposure) *network.State {
	t.Helper()
	net, err := network.New(banks, edges)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestExtractFeatures(t *testing.T) {
	net := buildNet(t, []model.BankNode{
		{ID: "A", Assets: 80_000_000, CapitalRatio: 9.9, Strategy: 0.6},
		{ID: "B", Assets: 40_000_000, CapitalRatio: 3.0, Status: model.StatusDefaulted},
		{ID: "C", Assets: 40_000_000, CapitalRatio: 15.0},
	}, []model.Exposure{
		{Lender: "A", Borrower: "B", Amount: 900_000},
		{Lender: "A", Borrower: "C", Amount: 100_000},
	})
	hist := history.NewStore()
	hist.Append("A", model.HistoryEntry{Round: 1, Health: 12.4})

	f := ExtractFeatures(net, hist)["A"]

	if f.Assets != 1.0 {
		t.Errorf("assets: expected 1.0 for the largest bank, got %f", f.Assets)
	}
	if math.Abs(f.Leverage-0.1) > 1e-9 {
		t.Errorf("leverage: expected 0.1, got %f", f.Leverage)
	}
	if math.Abs(f.Degree-0.1) > 1e-9 {
		t.Errorf("degree: expected 2/20, got %f", f.Degree)
	}
	if f.Strategy != 0.6 {
		t.Errorf("strategy: expected 0.6, got %f", f.Strategy)
	}
	// Only the loan to the defaulted borrower is toxic.
	wantContagion := 900_000.0 / (1_000_000.0 + exposureBase)
	if math.Abs(f.Contagion-wantContagion) > 1e-9 {
		t.Errorf("contagion: expected %f, got %f", wantContagion, f.Contagion)
	}
	if math.Abs(f.RiskSlope-(-2.5)) > 1e-9 {
		t.Errorf("slope: expected -2.5, got %f", f.RiskSlope)
	}
}

func TestExtractFeatures_NoHistoryNoSuccessors(t *testing.T) {
	net := buildNet(t, []model.BankNode{{ID: "A", Assets: 1, CapitalRatio: 10}}, nil)
	f := ExtractFeatures(net, history.NewStore())["A"]
	if f.RiskSlope != 0 {
		t.Errorf("expected zero slope without history, got %f", f.RiskSlope)
	}
	if f.Contagion != 0 {
		t.Errorf("expected zero contagion without loans, got %f", f.Contagion)
	}
}

func TestHeuristic_SeparatesHealthyFromDistressed(t *testing.T) {
	healthy := Score(Features{Assets: 0.8, Leverage: 1.0 / 16.1, Degree: 0.25, Strategy: 0.6})
	distressed := Score(Features{Assets: 0.3, Leverage: 1.0 / 4.1, Degree: 0.25, Strategy: 0.6, Contagion: 0.5, RiskSlope: -6})

	if healthy >= 0.5 {
		t.Errorf("healthy bank scored %f, expected below 0.5", healthy)
	}
	if distressed <= 0.5 {
		t.Errorf("distressed bank scored %f, expected above 0.5", distressed)
	}
}

func TestHeuristic_ToxicExposureRaisesScore(t *testing.T) {
	clean := Score(Features{Leverage: 0.1, Degree: 0.2, Strategy: 0.5})
	toxic := Score(Features{Leverage: 0.1, Degree: 0.2, Strategy: 0.5, Contagion: 0.8})
	if toxic <= clean {
		t.Errorf("contagion did not raise the score: %f vs %f", toxic, clean)
	}
}

func TestScore_StaysInUnitInterval(t *testing.T) {
	extremes := []Features{
		{},
		{Assets: 1, Leverage: 10, Degree: 5, Strategy: 1, Contagion: 1, RiskSlope: -100},
		{Assets: 1, RiskSlope: 100},
	}
	for _, f := range extremes {
		if s := Score(f); s < 0 || s > 1 {
			t.Errorf("score %f escaped [0,1] for %+v", s, f)
		}
	}
}

func TestHTTPOracle_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/score" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"scores":{"A":0.42,"B":0.07}}`))
	}))
	defer srv.Close()

	net := buildNet(t, []model.BankNode{
		{ID: "A", Assets: 1, CapitalRatio: 10},
		{ID: "B", Assets: 1, CapitalRatio: 10},
	}, []model.Exposure{{Lender: "A", Borrower: "B", Amount: 100}})

	o := NewHTTP(srv.URL, "secret", time.Second)
	scores, err := o.Predict(context.Background(), net, history.NewStore())
	if err != nil {
		t.Fatal(err)
	}
	if scores["A"] != 0.42 || scores["B"] != 0.07 {
		t.Errorf("unexpected scores: %v", scores)
	}
}

func TestHTTPOracle_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	net := buildNet(t, []model.BankNode{{ID: "A", Assets: 1, CapitalRatio: 10}}, nil)
	o := NewHTTP(srv.URL, "", time.Second)
	if _, err := o.Predict(context.Background(), net, history.NewStore()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPOracle_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	net := buildNet(t, []model.BankNode{{ID: "A", Assets: 1, CapitalRatio: 10}}, nil)
	o := NewHTTP(srv.URL, "", 20*time.Millisecond)
	if _, err := o.Predict(context.Background(), net, history.NewStore()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestNoop_ReportsNothing(t *testing.T) {
	scores, err := Noop{}.Predict(context.Background(), nil, nil)
	if err != nil || scores != nil {
		t.Errorf("noop should return nil, nil; got %v, %v", scores, err)
	}
}
