package recorder

import "resilinet/internal/model"

// RoundRecord holds everything worth keeping about one committed round.
type RoundRecord struct {
	Round         int
	PanicLevel    float64
	Active        int
	Defaulted     int
	ShockedBank   string
	ClearedVolume float64
	RoundPenalty  int64
	Stability     model.StabilityMetrics
}

// Recorder persists simulation history for offline analysis.
type Recorder interface {
	RecordReset(banks, edges int, source string) error
	RecordRound(rec *RoundRecord) error
	RecordDefault(round int, bankID string, capitalRatio float64) error
	RecordTransactions(round int, txs []model.Transaction) error
	Close() error
}
