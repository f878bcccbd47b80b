package prioritypool

import (
	"math"
	"math/rand"
	"testing"
)

func drainOrder(t *testing.T, q *prioQueue) []float64 {
	t.Helper()
	var out []float64
	for {
		task, ok := q.pop()
		if !ok {
			return out
		}
		out = append(out, task.Priority())
	}
}

func assertDescending(t *testing.T, got []float64) {
	t.Helper()
	for i := 1; i < len(got); i++ {
		if got[i-1] < got[i] {
			t.Fatalf("pop order %v is not descending at %d", got, i)
		}
	}
}

func TestPrioQueuePopOrder(t *testing.T) {
	q := newPrioQueue()
	rnd := rand.New(rand.NewSource(1))
	for range 200 {
		q.push(NewTask(rnd.Float64()*1000-500, nil))
	}
	if q.size() != 200 {
		t.Fatalf("size = %d; want 200", q.size())
	}

	got := drainOrder(t, q)
	if len(got) != 200 {
		t.Fatalf("popped %d tasks; want 200", len(got))
	}
	assertDescending(t, got)
}

func TestPrioQueuePopEmpty(t *testing.T) {
	q := newPrioQueue()
	if task, ok := q.pop(); ok || task != nil {
		t.Fatalf("pop on empty queue = (%v, %v); want (nil, false)", task, ok)
	}
}

func TestPrioQueueReprioritizeRestoresHeap(t *testing.T) {
	q := newPrioQueue()
	for i := range 64 {
		q.push(NewTask(float64(i), nil))
	}

	// Invert every priority. Without a rebuild the old maximum would
	// stay at the root.
	n := q.reprioritize(PolicyFunc(func(task Task) {
		task.SetPriority(-task.Priority())
	}))
	if n != 64 {
		t.Fatalf("reprioritize touched %d tasks; want 64", n)
	}

	for i := 0; i < q.h.Len(); i++ {
		for _, c := range []int{2*i + 1, 2*i + 2} {
			if c < q.h.Len() && q.h.Less(c, i) {
				t.Fatalf("heap invariant broken at parent %d child %d", i, c)
			}
		}
	}

	got := drainOrder(t, q)
	if got[0] != 0 || got[len(got)-1] != -63 {
		t.Fatalf("pop order after reprioritize = %v", got)
	}
	assertDescending(t, got)
}

func TestPrioQueueReprioritizePanicKeepsHeap(t *testing.T) {
	q := newPrioQueue()
	for i := range 16 {
		q.push(NewTask(float64(i), nil))
	}

	calls := 0
	func() {
		defer func() { _ = recover() }()
		q.reprioritize(PolicyFunc(func(task Task) {
			calls++
			if calls == 8 {
				panic("policy failed")
			}
			task.SetPriority(-task.Priority())
		}))
	}()

	assertDescending(t, drainOrder(t, q))
}

func TestPrioQueueDrain(t *testing.T) {
	q := newPrioQueue()
	for i := range 5 {
		q.push(NewTask(float64(i), nil))
	}
	if n := q.drain(); n != 5 {
		t.Fatalf("drain = %d; want 5", n)
	}
	if q.size() != 0 {
		t.Fatalf("size after drain = %d; want 0", q.size())
	}

	q.push(NewTask(1, nil))
	if q.size() != 1 {
		t.Fatalf("size after reuse = %d; want 1", q.size())
	}
}

// assertNaNLast checks that numbers come out in descending order and every
// NaN comes after the last number.
func assertNaNLast(t *testing.T, got []float64, wantNaN int) {
	t.Helper()
	nums := len(got) - wantNaN
	for i, v := range got {
		if (i >= nums) != math.IsNaN(v) {
			t.Fatalf("pop order %v: want %d NaN priorities at the end", got, wantNaN)
		}
	}
	assertDescending(t, got[:nums])
}

func TestPrioQueueNaNSortsLast(t *testing.T) {
	q := newPrioQueue()
	for _, prio := range []float64{1, math.NaN(), 5, 3, 9, 2, math.NaN(), -4} {
		q.push(NewTask(prio, nil))
	}

	got := drainOrder(t, q)
	assertNaNLast(t, got, 2)
	if got[0] != 9 || got[5] != -4 {
		t.Fatalf("pop order = %v", got)
	}
}

func TestPrioQueueReprioritizeToNaN(t *testing.T) {
	q := newPrioQueue()
	for i := range 20 {
		q.push(NewTask(float64(i), nil))
	}

	q.reprioritize(PolicyFunc(func(task Task) {
		if int(task.Priority())%3 == 0 {
			task.SetPriority(math.NaN())
			return
		}
		task.SetPriority(100 - task.Priority())
	}))

	// 0, 3, ..., 18 become NaN.
	assertNaNLast(t, drainOrder(t, q), 7)
}
