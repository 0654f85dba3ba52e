package sim

import (
	"context"
	"math"

	"go.uber.org/zap"

	"resilinet/internal/metrics"
	"resilinet/internal/model"
	"resilinet/internal/risklabel"
)

// buildSnapshot runs the risk tracking pass and renders the world: oracle
// scores feed the labeling, one history entry per bank is appended for the
// current round, and the full node/link view is assembled. Must run after
// the round counter has been advanced.
func (s *Simulation) buildSnapshot(w *world) model.GraphSnapshot {
	scores := s.predictScores(w)

	labels := make(map[string]model.RiskLabel, w.net.Len())
	nodes := make([]model.SnapshotNode, 0, w.net.Len()+1)
	for _, b := range w.net.Banks() {
		a := risklabel.Assess(b, scores[b.ID], w.round, s.rng)
		labels[b.ID] = a.Label

		riskPct := a.Prob * 100
		var prevRisk float64
		if last, ok := w.hist.Last(b.ID); ok {
			prevRisk = last.Risk
		}
		slope := riskPct - prevRisk

		w.hist.Append(b.ID, model.HistoryEntry{
			Round:  w.round,
			Risk:   riskPct,
			Health: b.CapitalRatio,
			Slope:  slope,
			Profit: b.LastProfit,
		})

		nodes = append(nodes, model.SnapshotNode{
			ID:           b.ID,
			Name:         model.DisplayName(b.ID),
			ActualAssets: int64(b.Assets),
			Health:       round1(b.CapitalRatio),
			Profit:       int64(b.LastProfit),
			Val:          1,
			Color:        a.Color,
			MLRiskProb:   round2(a.Prob),
			RiskLabel:    a.Label,
			NashAction:   b.NashAction,
			RiskSlope:    slope,
			Sensitivity:  round2(w.net.Sensitivity(b.ID)),
		})
	}
	nodes = append(nodes, ccpNode())

	links := make([]model.SnapshotLink, 0, len(w.net.Edges())+w.net.Len())
	for _, e := range w.net.Edges() {
		stress, color := risklabel.LinkStress(labels[e.Lender], labels[e.Borrower])
		links = append(links, model.SnapshotLink{
			Source: e.Lender,
			Target: e.Borrower,
			Amount: e.Amount,
			Color:  color,
			Stress: stress,
			Type:   model.LinkTransaction,
		})
	}
	for _, id := range w.net.IDs() {
		links = append(links, model.SnapshotLink{
			Source: id,
			Target: model.CCPNodeID,
			Amount: 0,
			Color:  risklabel.ColorCCP,
			Stress: model.StressStable,
			Type:   model.LinkMembership,
		})
	}

	return model.GraphSnapshot{Nodes: nodes, Links: links}
}

// predictScores asks the oracle for this round's scores. Failures degrade
// to threshold-only labeling instead of failing the round.
func (s *Simulation) predictScores(w *world) map[string]float64 {
	ctx, cancel := context.WithTimeout(context.Background(), s.oracleTimeout)
	defer cancel()

	scores, err := s.oracle.Predict(ctx, w.net, w.hist)
	if err != nil {
		metrics.OracleFailures.Inc()
		s.log.Warn("oracle prediction failed, falling back to baseline",
			zap.String("oracle", s.oracle.Name()),
			zap.Error(err))
		return nil
	}
	return scores
}

func ccpNode() model.SnapshotNode {
	return model.SnapshotNode{
		ID:           model.CCPNodeID,
		Name:         model.CCPNodeName,
		ActualAssets: 999,
		Health:       100,
		Val:          1,
		Color:        risklabel.ColorCCP,
		RiskLabel:    model.RiskSafe,
		IsCCP:        true,
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
