package policy

import (
	"math/rand"

	"resilinet/internal/network"
)

// Q-learning defaults and the thresholds feeding state classification.
// A borrower below riskyNeighborCapital marks the lender's book as shaky
// even before anyone defaults.
const (
	defaultLearningRate = 0.1
	defaultDiscount     = 0.9
	defaultEpsilon      = 0.2

	riskyNeighborCapital = 4.0
	warningOwnCapital    = 5.0
)

// State is the coarse view an agent has of its own book.
type State int

const (
	StateSafe State = iota
	StateWarning
	StateCritical
)

func (s State) String() string {
	switch s {
	case StateWarning:
		return "Warning"
	case StateCritical:
		return "Critical"
	default:
		return "Safe"
	}
}

// Action is a liquidity decision an agent can take.
type Action int

const (
	ActionHoard Action = iota
	ActionLend
	ActionBailout
)

func (a Action) String() string {
	switch a {
	case ActionLend:
		return "LEND"
	case ActionBailout:
		return "BAILOUT"
	default:
		return "HOARD"
	}
}

// Agent is one bank's learned liquidity policy, a 3x3 Q-table over
// states and actions.
type Agent struct {
	ID           string        `json:"id"`
	LearningRate float64       `json:"learning_rate"`
	Discount     float64       `json:"discount"`
	Epsilon      float64       `json:"epsilon"`
	QTable       [3][3]float64 `json:"q_table"`
}

// NewAgent creates an untrained agent with default hyperparameters.
func NewAgent(id string) *Agent {
	return &Agent{
		ID:           id,
		LearningRate: defaultLearningRate,
		Discount:     defaultDiscount,
		Epsilon:      defaultEpsilon,
	}
}

// StateFor classifies a bank's position from its borrowers. Any defaulted
// borrower is an immediate Critical, thin borrowers or thin own capital
// yield Warning, an empty book is Safe.
func StateFor(net *network.State, id string) State {
	b, ok := net.Bank(id)
	if !ok {
		return StateSafe
	}
	borrowers := net.Successors(id)
	if len(borrowers) == 0 {
		return StateSafe
	}
	risky := 0
	for _, bid := range borrowers {
		nbr, ok := net.Bank(bid)
		if !ok {
			continue
		}
		if nbr.Defaulted() {
			return StateCritical
		}
		if nbr.CapitalRatio < riskyNeighborCapital {
			risky++
		}
	}
	if risky > 0 || b.CapitalRatio < warningOwnCapital {
		return StateWarning
	}
	return StateSafe
}

// ChooseAction picks epsilon-greedily: explore with probability Epsilon,
// otherwise exploit the best known action, first index on ties.
func (a *Agent) ChooseAction(s State, rng *rand.Rand) Action {
	if rng.Float64() < a.Epsilon {
		return Action(rng.Intn(3))
	}
	return a.bestAction(s)
}

// Learn applies one temporal-difference update after observing the reward
// for taking action act in state s and landing in next.
func (a *Agent) Learn(s State, act Action, reward float64, next State) {
	predict := a.QTable[s][act]
	target := reward + a.Discount*a.maxQ(next)
	a.QTable[s][act] += a.LearningRate * (target - predict)
}

func (a *Agent) bestAction(s State) Action {
	best := Action(0)
	for act := 1; act < 3; act++ {
		if a.QTable[s][act] > a.QTable[s][best] {
			best = Action(act)
		}
	}
	return best
}

func (a *Agent) maxQ(s State) float64 {
	return a.QTable[s][a.bestAction(s)]
}
