package prioritypool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MetricsPolicy defines hooks used by the pool to report queueing and
// execution activity.
//
// Implementations must be safe for concurrent use. SetQueued and
// IncReprioritized are called while the pool holds its queue lock, so all
// methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted increments the submitted tasks counter.
	IncSubmitted()

	// IncExecuted increments the executed tasks counter. Tasks that
	// panicked are counted too.
	IncExecuted()

	// IncPanicked increments the panicked tasks counter.
	IncPanicked()

	// SetQueued records the current queue length.
	SetQueued(n int)

	// IncReprioritized adds n to the count of tasks passed through a
	// re-prioritization pass.
	IncReprioritized(n int)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	_         cpu.CacheLinePad

	executed atomic.Uint64
	_        cpu.CacheLinePad

	panicked      atomic.Uint64
	reprioritized atomic.Uint64
	queued        atomic.Int64
}

// Submitted returns the total number of submitted tasks.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Executed returns the total number of executed tasks.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Panicked returns the total number of tasks that panicked.
func (m *AtomicMetrics) Panicked() uint64 { return m.panicked.Load() }

// Reprioritized returns the total number of priority adjustments.
func (m *AtomicMetrics) Reprioritized() uint64 { return m.reprioritized.Load() }

// Queued returns the last recorded queue length.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

func (m *AtomicMetrics) IncSubmitted()          { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()           { m.executed.Add(1) }
func (m *AtomicMetrics) IncPanicked()           { m.panicked.Add(1) }
func (m *AtomicMetrics) SetQueued(n int)        { m.queued.Store(int64(n)) }
func (m *AtomicMetrics) IncReprioritized(n int) { m.reprioritized.Add(uint64(n)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()        {}
func (m *NoopMetrics) IncExecuted()         {}
func (m *NoopMetrics) IncPanicked()         {}
func (m *NoopMetrics) SetQueued(int)        {}
func (m *NoopMetrics) IncReprioritized(int) {}
