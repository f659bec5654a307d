package sweep

import "sync/atomic"

// Progress holds live counters that may be read while the sweep runs.
type Progress struct {
	total     int64
	attempted atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// Snapshot is a point-in-time copy of Progress.
type Snapshot struct {
	Total     int64 `json:"total"`
	Attempted int64 `json:"attempted"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Snapshot returns the current counter values.
func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		Total:     p.total,
		Attempted: p.attempted.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
	}
}
