package prioritypool

import (
	"errors"
	"fmt"

	lg "github.com/Andrej220/go-utils/zlog"
)

var (
	// ErrNilTask is returned when Submit is called with a nil task.
	ErrNilTask = errors.New("prioritypool: task is nil")

	// ErrPoolStopped is returned by operations on a pool after Destroy.
	// A destroyed pool cannot be restarted.
	ErrPoolStopped = errors.New("prioritypool: pool stopped")

	// ErrNoPolicy is returned by UpdatePriority when no Policy is set.
	ErrNoPolicy = errors.New("prioritypool: no policy registered")

	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("prioritypool: task panicked")
)

// reportTaskPanic reports a panic recovered from Task.Execute.
//
// If no handler is registered, the panic is only logged.
func (p *Pool) reportTaskPanic(worker int, r any) {
	err := fmt.Errorf("%w: %v", ErrTaskPanicked, r)
	lg.FromContext(p.opts.Ctx).Error("task panicked", lg.Int("worker", worker), lg.Any("panic", r))
	if p.opts.OnTaskPanic != nil {
		p.opts.OnTaskPanic(err)
	}
}
