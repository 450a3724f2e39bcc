package monitor

import "time"

// Status is the last observed state of every dependency. Optional
// dependencies that are not configured report Enabled false.
type Status struct {
	Upstream       bool      `json:"upstream"`
	HistoryEnabled bool      `json:"history_enabled"`
	PostgreSQL     bool      `json:"postgresql"`
	CacheEnabled   bool      `json:"cache_enabled"`
	Redis          bool      `json:"redis"`
	Buffer         bool      `json:"buffer"`
	BufferSize     int       `json:"buffer_size"`
	LastCheck      time.Time `json:"last_check"`
}

// Healthy reports whether every configured dependency answered.
func (s Status) Healthy() bool {
	if !s.Upstream {
		return false
	}
	if s.HistoryEnabled && !s.PostgreSQL {
		return false
	}
	if s.CacheEnabled && !s.Redis {
		return false
	}
	return true
}
