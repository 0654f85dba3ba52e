package network

import (
	"math"

	"resilinet/internal/model"
)

// VIP scoring and sensitivity calibration.
const (
	vipAssetNorm     = 80_000_000.0
	vipDegreeWeight  = 0.03
	leverageBase     = 20.0
	sensitivityScale = 80.0
)

// State is the directed interbank exposure graph. Node and edge iteration
// order is the insertion order of the input data, which keeps simulation
// rounds reproducible for a fixed random seed.
//
// State itself is not synchronized. The simulation serializes all access.
type State struct {
	nodes map[string]*model.BankNode
	order []string
	edges []model.Exposure
	succ  map[string][]string
	deg   map[string]int
}

// New builds a graph from bank and exposure lists. Unknown endpoints,
// duplicate ids, duplicate edges, self exposures and negative amounts are
// rejected with a ValidationError.
func New(banks []model.BankNode, exposures []model.Exposure) (*State, error) {
	if len(banks) == 0 {
		return nil, validationf("no banks")
	}

	s := &State{
		nodes: make(map[string]*model.BankNode, len(banks)),
		order: make([]string, 0, len(banks)),
		edges: make([]model.Exposure, 0, len(exposures)),
		succ:  make(map[string][]string),
		deg:   make(map[string]int, len(banks)),
	}

	for _, b := range banks {
		if b.ID == "" {
			return nil, validationf("bank with empty id")
		}
		if _, dup := s.nodes[b.ID]; dup {
			return nil, validationf("duplicate bank id %q", b.ID)
		}
		n := b
		if n.Status == "" {
			n.Status = model.StatusActive
		}
		if n.NashAction == "" {
			n.NashAction = model.ActionHold
		}
		s.nodes[n.ID] = &n
		s.order = append(s.order, n.ID)
	}

	seen := make(map[[2]string]bool, len(exposures))
	for _, e := range exposures {
		if _, ok := s.nodes[e.Lender]; !ok {
			return nil, validationf("exposure references unknown lender %q", e.Lender)
		}
		if _, ok := s.nodes[e.Borrower]; !ok {
			return nil, validationf("exposure references unknown borrower %q", e.Borrower)
		}
		if e.Lender == e.Borrower {
			return nil, validationf("self exposure on %q", e.Lender)
		}
		if e.Amount < 0 {
			return nil, validationf("negative exposure %q -> %q", e.Lender, e.Borrower)
		}
		key := [2]string{e.Lender, e.Borrower}
		if seen[key] {
			return nil, validationf("duplicate exposure %q -> %q", e.Lender, e.Borrower)
		}
		seen[key] = true

		s.edges = append(s.edges, e)
		s.succ[e.Lender] = append(s.succ[e.Lender], e.Borrower)
		s.deg[e.Lender]++
		s.deg[e.Borrower]++
	}
	return s, nil
}

// Induce returns the subgraph over the first n banks in insertion order,
// keeping only exposures whose both endpoints survive. If n covers the whole
// graph the state is returned unchanged.
func (s *State) Induce(n int) *State {
	if n <= 0 || n >= len(s.order) {
		return s
	}
	keep := make(map[string]bool, n)
	banks := make([]model.BankNode, 0, n)
	for _, id := range s.order[:n] {
		keep[id] = true
		banks = append(banks, *s.nodes[id])
	}
	var exposures []model.Exposure
	for _, e := range s.edges {
		if keep[e.Lender] && keep[e.Borrower] {
			exposures = append(exposures, e)
		}
	}
	sub, err := New(banks, exposures)
	if err != nil {
		// The parent already validated; a subset cannot fail.
		panic(err)
	}
	return sub
}

// Len returns the number of banks.
func (s *State) Len() int { return len(s.order) }

// IDs returns the bank ids in insertion order.
func (s *State) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Banks returns the banks in insertion order. The pointers address live
// state, callers that only read must not hold them across a round.
func (s *State) Banks() []*model.BankNode {
	banks := make([]*model.BankNode, len(s.order))
	for i, id := range s.order {
		banks[i] = s.nodes[id]
	}
	return banks
}

// Bank looks up a single bank by id.
func (s *State) Bank(id string) (*model.BankNode, bool) {
	b, ok := s.nodes[id]
	return b, ok
}

// Edges returns the exposure list in insertion order.
func (s *State) Edges() []model.Exposure { return s.edges }

// Successors returns the ids of banks the given bank lends to.
func (s *State) Successors(id string) []string { return s.succ[id] }

// EdgeAmount returns the exposure amount from lender to borrower.
func (s *State) EdgeAmount(lender, borrower string) float64 {
	for _, e := range s.edges {
		if e.Lender == lender && e.Borrower == borrower {
			return e.Amount
		}
	}
	return 0
}

// Degree returns the total (in plus out) degree of a bank.
func (s *State) Degree(id string) int { return s.deg[id] }

// DegreeCentrality returns degree/(n-1) per bank, zero for a single node.
func (s *State) DegreeCentrality() map[string]float64 {
	c := make(map[string]float64, len(s.order))
	n := len(s.order)
	if n <= 1 {
		for _, id := range s.order {
			c[id] = 0
		}
		return c
	}
	norm := 1.0 / float64(n-1)
	for _, id := range s.order {
		c[id] = float64(s.deg[id]) * norm
	}
	return c
}

// TotalAssets sums the assets of every bank.
func (s *State) TotalAssets() float64 {
	var total float64
	for _, id := range s.order {
		total += s.nodes[id].Assets
	}
	return total
}

// MaxAssets returns the largest single balance sheet, at least 1.
func (s *State) MaxAssets() float64 {
	max := 1.0
	for _, id := range s.order {
		if a := s.nodes[id].Assets; a > max {
			max = a
		}
	}
	return max
}

// Hub returns the bank with the highest total degree, first in insertion
// order on ties.
func (s *State) Hub() (string, bool) {
	if len(s.order) == 0 {
		return "", false
	}
	hub := s.order[0]
	for _, id := range s.order[1:] {
		if s.deg[id] > s.deg[hub] {
			hub = id
		}
	}
	return hub, true
}

// DefaultedCount returns the number of failed banks.
func (s *State) DefaultedCount() int {
	var n int
	for _, id := range s.order {
		if s.nodes[id].Defaulted() {
			n++
		}
	}
	return n
}

// ComputeVIPScores refreshes every bank's importance score from its balance
// sheet and connectivity.
func (s *State) ComputeVIPScores() {
	for _, id := range s.order {
		b := s.nodes[id]
		b.VIPScore = b.Assets/vipAssetNorm + float64(s.deg[id])*vipDegreeWeight
	}
}

// Sensitivity estimates how exposed a bank is to contagion, combining
// leverage with connectivity and capped at 1.
func (s *State) Sensitivity(id string) float64 {
	b, ok := s.nodes[id]
	if !ok {
		return 0
	}
	leverage := leverageBase / (b.CapitalRatio + 0.1)
	return math.Min(1.0, leverage*float64(s.deg[id])/sensitivityScale)
}

// Clone returns a deep copy sharing nothing with the receiver.
func (s *State) Clone() *State {
	c := &State{
		nodes: make(map[string]*model.BankNode, len(s.nodes)),
		order: make([]string, len(s.order)),
		edges: make([]model.Exposure, len(s.edges)),
		succ:  make(map[string][]string, len(s.succ)),
		deg:   make(map[string]int, len(s.deg)),
	}
	copy(c.order, s.order)
	copy(c.edges, s.edges)
	for id, b := range s.nodes {
		n := *b
		c.nodes[id] = &n
	}
	for id, next := range s.succ {
		cp := make([]string, len(next))
		copy(cp, next)
		c.succ[id] = cp
	}
	for id, d := range s.deg {
		c.deg[id] = d
	}
	return c
}
