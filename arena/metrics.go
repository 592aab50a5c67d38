package arena

import "sync/atomic"

// WorkerMetrics records per-worker runtime counters for the /metrics
// endpoint, the same role the source's RoomMetrics plays for a single
// room generalized here to one set of counters per worker.
type WorkerMetrics struct {
	TicksRun  int64
	Opened    int64
	Closed    int64
	Malformed int64
}

func (m *WorkerMetrics) AddTick(n int64) { atomic.AddInt64(&m.TicksRun, n) }
func (m *WorkerMetrics) IncOpened()      { atomic.AddInt64(&m.Opened, 1) }
func (m *WorkerMetrics) IncClosed()      { atomic.AddInt64(&m.Closed, 1) }
func (m *WorkerMetrics) IncMalformed()   { atomic.AddInt64(&m.Malformed, 1) }

// Snapshot returns a read-only copy suitable for JSON encoding.
func (m *WorkerMetrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"ticks_run": atomic.LoadInt64(&m.TicksRun),
		"opened":    atomic.LoadInt64(&m.Opened),
		"closed":    atomic.LoadInt64(&m.Closed),
		"malformed": atomic.LoadInt64(&m.Malformed),
	}
}
