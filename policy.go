package prioritypool

import (
	"math/rand"
	"sync"
	"time"
)

// Policy recomputes the priority of a queued task.
//
// Adjust is called by UpdatePriority while the pool holds its queue lock.
// It must not block on the pool, call any Pool method, or submit tasks;
// doing so deadlocks the pool.
type Policy interface {
	Adjust(t Task)
}

// PolicyFunc adapts an ordinary function to the Policy interface.
type PolicyFunc func(t Task)

// Adjust calls f(t).
func (f PolicyFunc) Adjust(t Task) { f(t) }

// RandomPolicy assigns every task a uniformly distributed priority
// in [0, Max).
type RandomPolicy struct {
	Max float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPolicy returns a RandomPolicy with Max set to limit, drawing
// from a source seeded with seed. A zero seed uses the current time.
func NewRandomPolicy(limit float64, seed int64) *RandomPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPolicy{
		Max: limit,
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Adjust sets a fresh random priority on t.
func (r *RandomPolicy) Adjust(t Task) {
	r.mu.Lock()
	v := r.rnd.Float64() * r.Max
	r.mu.Unlock()
	t.SetPriority(v)
}

// AgingPolicy raises the priority of every queued task by Step on each
// pass. Tasks that sit in the queue across several passes gradually
// overtake newer submissions, which prevents starvation of low-priority
// work under a steady stream of high-priority tasks.
type AgingPolicy struct {
	Step float64
}

// Adjust adds Step to the priority of t.
func (a AgingPolicy) Adjust(t Task) {
	t.SetPriority(t.Priority() + a.Step)
}
