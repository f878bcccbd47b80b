package prioritypool

// Task is a single unit of work submitted to the pool.
//
// Priority and SetPriority are plain accessors with no internal
// synchronization. Once a task is queued the pool reads and writes its
// priority only while holding the queue lock, so callers must not mutate
// the priority of a task that is already submitted.
//
// Execute performs the work. It may block, sleep or do I/O. The pool does
// not observe its outcome: a task that can fail must report the failure
// itself (see RetryTask).
type Task interface {
	Priority() float64
	SetPriority(p float64)
	Execute()
}

// BasePriority stores a task priority. Embed it to satisfy the priority
// half of Task.
type BasePriority struct {
	prio float64
}

// Priority returns the current priority.
func (b *BasePriority) Priority() float64 { return b.prio }

// SetPriority replaces the current priority.
func (b *BasePriority) SetPriority(p float64) { b.prio = p }

// FuncTask adapts a plain function to the Task interface.
type FuncTask struct {
	BasePriority
	fn func()
}

// NewTask returns a task that calls fn when executed.
func NewTask(priority float64, fn func()) *FuncTask {
	t := &FuncTask{fn: fn}
	t.SetPriority(priority)
	return t
}

// Execute calls the wrapped function. A nil function is a no-op.
func (t *FuncTask) Execute() {
	if t.fn != nil {
		t.fn()
	}
}
