package clearing

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"resilinet/internal/model"
	"resilinet/internal/network"
)

// Clearing calibration. Each round roughly a fifth of all exposures settle
// through the CCP. Large tickets from highly central lenders are rejected
// outright and fined.
const (
	inclusionProb    = 0.20
	rejectCentrality = 0.2
	rejectAmount     = 800_000.0
	penaltyRate      = 0.02
	scaleMin         = 0.05
	scaleMax         = 0.30

	// WindowCap bounds the ledger the CCP keeps in memory, newest first.
	WindowCap = 150
)

var txTypes = []model.TxType{model.TxLending, model.TxRepayment, model.TxMarginCall}

// Result is the outcome of one clearing pass.
type Result struct {
	Transactions  []model.Transaction
	ClearedVolume float64
	Penalty       int64
}

// Run samples this round's settlement batch from the exposure graph and
// prices each ticket. Cleared volume counts the full exposure amount, the
// ticket itself settles only a sampled slice of it.
func Run(net *network.State, rng *rand.Rand) Result {
	var res Result
	centrality := net.DegreeCentrality()

	for _, e := range net.Edges() {
		if rng.Float64() >= inclusionProb {
			continue
		}
		txType := txTypes[rng.Intn(len(txTypes))]

		status := model.TxCleared
		var penalty int64
		sender, _ := net.Bank(e.Lender)
		switch {
		case sender.Defaulted():
			status = model.TxFailed
		case centrality[e.Lender] > rejectCentrality && e.Amount > rejectAmount:
			status = model.TxRejected
			penalty = int64(e.Amount * penaltyRate)
			res.Penalty += penalty
		case sender.CapitalRatio < model.InsolvencyLimit:
			status = model.TxPending
		}
		if status == model.TxCleared {
			res.ClearedVolume += e.Amount
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			ID:      newTxID(),
			Time:    time.Now().Format("15:04:05"),
			Source:  model.DisplayName(e.Lender),
			Target:  model.DisplayName(e.Borrower),
			Type:    txType,
			Amount:  int64(e.Amount * (scaleMin + rng.Float64()*(scaleMax-scaleMin))),
			Status:  status,
			Penalty: penalty,
		})
	}
	return res
}

// MergeWindow prepends fresh transactions to the ledger and truncates it to
// the window cap, keeping the newest entries.
func MergeWindow(existing, fresh []model.Transaction) []model.Transaction {
	merged := make([]model.Transaction, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	merged = append(merged, existing...)
	if len(merged) > WindowCap {
		merged = merged[:WindowCap]
	}
	return merged
}

func newTxID() string {
	return "TX-" + strings.ToUpper(uuid.NewString()[:8])
}
