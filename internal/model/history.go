package model

// HistoryEntry is one per-round observation in a bank's time series.
// Risk is a percentage, Health the capital ratio at the time of capture.
type HistoryEntry struct {
	Round  int     `json:"round"`
	Risk   float64 `json:"risk"`
	Health float64 `json:"health"`
	Slope  float64 `json:"slope"`
	Profit float64 `json:"profit"`
}
