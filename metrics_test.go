package prioritypool

import "testing"

func TestAtomicMetrics(t *testing.T) {
	var m AtomicMetrics
	m.IncSubmitted()
	m.IncSubmitted()
	m.IncExecuted()
	m.IncPanicked()
	m.IncReprioritized(4)
	m.SetQueued(9)
	m.SetQueued(3)

	if m.Submitted() != 2 || m.Executed() != 1 || m.Panicked() != 1 {
		t.Fatalf("counters = %d/%d/%d; want 2/1/1", m.Submitted(), m.Executed(), m.Panicked())
	}
	if m.Reprioritized() != 4 {
		t.Fatalf("reprioritized = %d; want 4", m.Reprioritized())
	}
	if m.Queued() != 3 {
		t.Fatalf("queued = %d; want 3", m.Queued())
	}
}

func TestPoolReportsQueueDepth(t *testing.T) {
	m := &AtomicMetrics{}
	p := New(Options{Workers: 1, Metrics: m})
	defer p.Destroy()

	for i := range 4 {
		_ = p.Submit(NewTask(float64(i), nil))
	}
	if got := m.Queued(); got != 4 {
		t.Fatalf("queued = %d; want 4", got)
	}

	p.Destroy()
	if got := m.Queued(); got != 0 {
		t.Fatalf("queued after Destroy = %d; want 0", got)
	}
}
