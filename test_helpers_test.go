package prioritypool_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	pp "github.com/Andrej220/go-utils/prioritypool"
)

func newTestPool(t *testing.T, workers int) (*pp.Pool, *pp.AtomicMetrics) {
	t.Helper()

	m := &pp.AtomicMetrics{}
	p := pp.New(pp.Options{
		Workers: workers,
		Metrics: m,
	})
	t.Cleanup(p.Destroy)
	return p, m
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func waitGroup(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("tasks did not finish before timeout")
	}
}

// recorder collects the ids of tasks in the order they start executing.
type recorder struct {
	mu    sync.Mutex
	order []int
	wg    sync.WaitGroup
}

func (r *recorder) task(id int, prio float64) *pp.FuncTask {
	r.wg.Add(1)
	return pp.NewTask(prio, func() {
		defer r.wg.Done()
		r.mu.Lock()
		r.order = append(r.order, id)
		r.mu.Unlock()
	})
}

func (r *recorder) started() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.order...)
}
