package history

import "resilinet/internal/model"

// Each bank keeps at most this many rounds of history.
const maxEntries = 50

// Store holds the per-bank time series the risk tracker and the oracle
// consume. It is not synchronized, the simulation serializes access.
type Store struct {
	series map[string][]model.HistoryEntry
}

func NewStore() *Store {
	return &Store{series: make(map[string][]model.HistoryEntry)}
}

// Append records one observation. A second append for the same round is
// ignored, so rebuilding a snapshot never duplicates a round. When the
// series exceeds its cap the oldest entries are dropped.
func (s *Store) Append(id string, e model.HistoryEntry) {
	list := s.series[id]
	if len(list) > 0 && list[len(list)-1].Round == e.Round {
		return
	}
	list = append(list, e)
	if len(list) > maxEntries {
		list = list[len(list)-maxEntries:]
	}
	s.series[id] = list
}

// Last returns the most recent entry for a bank.
func (s *Store) Last(id string) (model.HistoryEntry, bool) {
	list := s.series[id]
	if len(list) == 0 {
		return model.HistoryEntry{}, false
	}
	return list[len(list)-1], true
}

// Get returns a copy of a bank's series, oldest first. The second result
// reports whether the bank has been observed at all.
func (s *Store) Get(id string) ([]model.HistoryEntry, bool) {
	list, ok := s.series[id]
	if !ok {
		return nil, false
	}
	out := make([]model.HistoryEntry, len(list))
	copy(out, list)
	return out, true
}

// Clone returns a deep copy sharing no backing arrays with the receiver.
func (s *Store) Clone() *Store {
	c := NewStore()
	for id, list := range s.series {
		cp := make([]model.HistoryEntry, len(list))
		copy(cp, list)
		c.series[id] = cp
	}
	return c
}
