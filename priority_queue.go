package prioritypool

import (
	"container/heap"
	"math"
)

const (
	prioCap = 64
)

// taskHeap is a max-heap of queued tasks ordered by Task.Priority.
// Ties are broken arbitrarily. NaN priorities sort below every number so
// Less stays a strict weak ordering.
type taskHeap []Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	a, b := h[i].Priority(), h[j].Priority()
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b // max-heap
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// prioQueue wraps taskHeap with the operations the pool needs.
// It is not safe for concurrent use; the pool guards it with its mutex.
type prioQueue struct {
	h taskHeap
}

// newPrioQueue creates an empty queue initialized as a max-heap.
func newPrioQueue() *prioQueue {
	q := &prioQueue{h: make(taskHeap, 0, prioCap)}
	heap.Init(&q.h)
	return q
}

// push inserts t and restores heap order.
func (q *prioQueue) push(t Task) {
	heap.Push(&q.h, t)
}

// pop removes and returns the task with the highest priority.
// If the queue is empty, pop returns nil and false.
func (q *prioQueue) pop() (Task, bool) {
	if q.h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.h).(Task), true
}

// reprioritize applies p to every queued task.
//
// Priorities of heap-resident tasks change in place, which breaks heap
// order, so the heap is rebuilt before returning, even when Adjust
// panics. Runs in O(n) plus the cost of n Adjust calls.
func (q *prioQueue) reprioritize(p Policy) int {
	defer heap.Init(&q.h)
	for _, t := range q.h {
		p.Adjust(t)
	}
	return len(q.h)
}

// drain drops every queued task and reports how many were dropped.
func (q *prioQueue) drain() int {
	n := len(q.h)
	clear(q.h)
	q.h = q.h[:0]
	return n
}

// size returns the number of queued tasks.
func (q *prioQueue) size() int {
	return q.h.Len()
}
