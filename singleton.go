package prioritypool

import (
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

// DefaultWorkers is the worker count used by Instance when it is called
// with a non-positive count.
const DefaultWorkers = 4

var (
	instance     *Pool
	instanceOnce sync.Once
)

// Instance returns the process-wide pool, creating it on first use.
//
// The worker count passed to the first call is fixed for the life of the
// process. Later calls asking for a different count get the same pool
// and a warning is logged. Entry points that prefer explicit wiring
// should construct a Pool with New and pass it to their collaborators.
func Instance(workers int) *Pool {
	return InstanceWithOptions(Options{Workers: workers})
}

// InstanceWithOptions is Instance with full control over the options used
// when the pool is created. Options passed after the first call are
// ignored.
func InstanceWithOptions(opts Options) *Pool {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
		opts.Workers = workers
	}
	instanceOnce.Do(func() {
		instance = New(opts)
	})
	if workers != instance.ThreadCount() {
		lg.FromContext(instance.opts.Ctx).Warn("ignoring worker count for existing pool",
			lg.Int("requested", workers),
			lg.Int("workers", instance.ThreadCount()),
		)
	}
	return instance
}
