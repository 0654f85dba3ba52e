package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"resilinet/internal/clearing"
	"resilinet/internal/dataset"
	"resilinet/internal/history"
	"resilinet/internal/metrics"
	"resilinet/internal/model"
	"resilinet/internal/network"
	"resilinet/internal/oracle"
	"resilinet/internal/recorder"
	"resilinet/internal/stability"
)

const (
	defaultSubsetSize    = 15
	defaultOracleTimeout = 2 * time.Second
)

// Params configures a Simulation. Zero values fall back to sane defaults:
// noop oracle and recorder, nop logger, time-seeded randomness, a 15 bank
// subset and a 2 second oracle budget.
type Params struct {
	Source        dataset.Source
	Oracle        oracle.Oracle
	Recorder      recorder.Recorder
	Logger        *zap.Logger
	Rand          *rand.Rand
	SubsetSize    int
	OracleTimeout time.Duration
}

// Simulation owns the whole contagion engine. All operations serialize on
// one mutex; rounds mutate a cloned world that is committed atomically.
type Simulation struct {
	mu            sync.Mutex
	rng           *rand.Rand
	source        dataset.Source
	oracle        oracle.Oracle
	rec           recorder.Recorder
	log           *zap.Logger
	subset        int
	oracleTimeout time.Duration

	w *world
}

// RoundResult is the committed outcome of a reset or a step. Logs holds
// only the lines produced by this operation.
type RoundResult struct {
	Round int
	Graph model.GraphSnapshot
	Logs  []string
	Stats model.RoundStats
}

// LedgerView is the CCP ledger window with its lifetime accumulators.
type LedgerView struct {
	Transactions []model.Transaction `json:"transactions"`
	TotalVolume  float64             `json:"total_volume"`
	TotalPenalty int64               `json:"total_penalty"`
	ClearedCount int                 `json:"cleared_count"`
}

func New(p Params) *Simulation {
	s := &Simulation{
		rng:           p.Rand,
		source:        p.Source,
		oracle:        p.Oracle,
		rec:           p.Recorder,
		log:           p.Logger,
		subset:        p.SubsetSize,
		oracleTimeout: p.OracleTimeout,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.oracle == nil {
		s.oracle = oracle.Noop{}
	}
	if s.rec == nil {
		s.rec = recorder.NewNoopRecorder()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.subset == 0 {
		s.subset = defaultSubsetSize
	}
	if s.oracleTimeout <= 0 {
		s.oracleTimeout = defaultOracleTimeout
	}
	return s
}

// Reset rebuilds the system from the configured dataset source.
func (s *Simulation) Reset() (*RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return nil, errors.New("no dataset source configured")
	}
	banks, exposures, err := s.source.Load()
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return s.initLocked(banks, exposures, s.source.Name())
}

// Init rebuilds the system from explicit data, bypassing the source.
func (s *Simulation) Init(banks []model.BankNode, exposures []model.Exposure) (*RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(banks, exposures, "direct")
}

func (s *Simulation) initLocked(banks []model.BankNode, exposures []model.Exposure, source string) (*RoundResult, error) {
	full, err := network.New(banks, exposures)
	if err != nil {
		return nil, err
	}
	net := full.Induce(s.subset)
	net.ComputeVIPScores()

	w := &world{
		net:       net,
		hist:      history.NewStore(),
		logs:      []string{"SYSTEM RESET", "CORE-ML: ACTIVE"},
		circuit:   model.CircuitOpen,
		stability: model.InitialStability(),
	}
	w.graph = s.buildSnapshot(w)
	w.stats = model.RoundStats{Active: net.Len(), Defaulted: 0, Stability: w.stability}
	s.w = w

	metrics.ResetsTotal.Inc()
	metrics.ActiveBanks.Set(float64(net.Len()))
	metrics.DefaultedBanks.Set(0)
	metrics.CircuitHalted.Set(0)
	if err := s.rec.RecordReset(net.Len(), len(net.Edges()), source); err != nil {
		s.log.Warn("record reset failed", zap.Error(err))
	}
	s.log.Info("system reset",
		zap.String("source", source),
		zap.Int("banks", net.Len()),
		zap.Int("exposures", len(net.Edges())))

	return &RoundResult{
		Round: 0,
		Graph: w.graph,
		Logs:  append([]string(nil), w.logs...),
		Stats: w.stats,
	}, nil
}

// Step advances the system one round at the given panic level. The round
// runs on a clone of the current world and commits only when complete.
// A halted market refuses to step until the next reset.
func (s *Simulation) Step(panicLevel float64) (*RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return nil, ErrNotInitialized
	}
	if s.w.circuit == model.CircuitHalted {
		return nil, ErrHalted
	}

	start := time.Now()
	w := s.w.clone()
	var newLogs []string

	s.applyProfits(w, panicLevel)

	shocked, hit := s.applyShock(w, panicLevel)
	if hit {
		newLogs = append(newLogs, fmt.Sprintf("⚠️ SHOCK: %s hit.", shocked))
	}

	s.applyNash(w)

	cl := clearing.Run(w.net, s.rng)
	w.ledger = clearing.MergeWindow(w.ledger, cl.Transactions)
	w.payoff += cl.ClearedVolume
	w.penalty += cl.Penalty

	active, defaulted, fresh := s.detectDefaults(w)
	for _, d := range fresh {
		newLogs = append(newLogs, fmt.Sprintf("💀 DEFAULT: %s insolvent.", d.id))
	}

	if float64(w.net.DefaultedCount())/float64(w.net.Len()) >= circuitTrigger {
		w.circuit = model.CircuitHalted
		newLogs = append(newLogs, "🛑 MARKET HALTED.")
	}

	w.round++
	w.logs = prependLogs(newLogs, w.logs)
	w.stability = stability.Compute(w.net, w.circuit, w.payoff, w.penalty)

	w.graph = s.buildSnapshot(w)
	w.stats = model.RoundStats{Active: active, Defaulted: defaulted, Stability: w.stability}
	s.w = w

	s.publishMetrics(w, cl, len(fresh), hit, time.Since(start))
	s.record(w, panicLevel, w.stats, shocked, cl, fresh)
	s.log.Info("round complete",
		zap.Int("round", w.round),
		zap.Float64("panic", panicLevel),
		zap.Int("active", active),
		zap.Int("defaulted", defaulted),
		zap.String("status", string(w.stability.Status)))

	return &RoundResult{Round: w.round, Graph: w.graph, Logs: newLogs, Stats: w.stats}, nil
}

// Snapshot returns the committed view of the current round without
// advancing the simulation. The second result is false before the first
// reset.
func (s *Simulation) Snapshot() (*RoundResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil, false
	}
	return &RoundResult{Round: s.w.round, Graph: s.w.graph, Stats: s.w.stats}, true
}

// Track returns a copy of one bank's history series. The second result is
// false when the bank has never been observed.
func (s *Simulation) Track(id string) ([]model.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil, false
	}
	return s.w.hist.Get(id)
}

// Ledger returns the CCP ledger window, newest transactions first.
func (s *Simulation) Ledger() LedgerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := LedgerView{Transactions: []model.Transaction{}}
	if s.w == nil {
		return view
	}
	view.Transactions = append(view.Transactions, s.w.ledger...)
	view.TotalVolume = s.w.payoff
	view.TotalPenalty = s.w.penalty
	view.ClearedCount = len(s.w.ledger)
	return view
}

// Initialized reports whether a dataset has been loaded.
func (s *Simulation) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w != nil
}

// CurrentRound returns the committed round counter.
func (s *Simulation) CurrentRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return 0
	}
	return s.w.round
}

// Halted reports whether the circuit breaker has fired.
func (s *Simulation) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w != nil && s.w.circuit == model.CircuitHalted
}

func (s *Simulation) publishMetrics(w *world, cl clearing.Result, freshDefaults int, shocked bool, elapsed time.Duration) {
	metrics.RoundsTotal.Inc()
	metrics.StepDuration.Observe(elapsed.Seconds())
	metrics.DefaultsTotal.Add(float64(freshDefaults))
	if shocked {
		metrics.ShocksTotal.Inc()
	}
	metrics.ClearedVolumeTotal.Add(cl.ClearedVolume)
	metrics.RejectedPenaltyTotal.Add(float64(cl.Penalty))

	metrics.ActiveBanks.Set(float64(w.net.Len() - w.net.DefaultedCount()))
	metrics.DefaultedBanks.Set(float64(w.net.DefaultedCount()))
	metrics.SystemEntropy.Set(w.stability.SystemEntropy)
	metrics.ButterflyRisk.Set(w.stability.ButterflyRisk)
	if w.circuit == model.CircuitHalted {
		metrics.CircuitHalted.Set(1)
	} else {
		metrics.CircuitHalted.Set(0)
	}
}

func (s *Simulation) record(w *world, panicLevel float64, stats model.RoundStats, shocked string, cl clearing.Result, fresh []defaultEvent) {
	rec := &recorder.RoundRecord{
		Round:         w.round,
		PanicLevel:    panicLevel,
		Active:        stats.Active,
		Defaulted:     stats.Defaulted,
		ShockedBank:   shocked,
		ClearedVolume: cl.ClearedVolume,
		RoundPenalty:  cl.Penalty,
		Stability:     w.stability,
	}
	if err := s.rec.RecordRound(rec); err != nil {
		s.log.Warn("record round failed", zap.Error(err))
	}
	for _, d := range fresh {
		if err := s.rec.RecordDefault(w.round, d.id, d.capital); err != nil {
			s.log.Warn("record default failed", zap.String("bank", d.id), zap.Error(err))
		}
	}
	if err := s.rec.RecordTransactions(w.round, cl.Transactions); err != nil {
		s.log.Warn("record transactions failed", zap.Error(err))
	}
}
