package recorder

import "resilinet/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReset(_, _ int, _ string) error                  { return nil }
func (n *NoopRecorder) RecordRound(_ *RoundRecord) error                      { return nil }
func (n *NoopRecorder) RecordDefault(_ int, _ string, _ float64) error        { return nil }
func (n *NoopRecorder) RecordTransactions(_ int, _ []model.Transaction) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
