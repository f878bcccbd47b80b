package prioritypool

import (
	"context"
	"runtime"
)

// Options configure a Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the fixed number of worker goroutines started by Run.
	Workers int

	// PinWorkers locks every worker to its own OS thread and, on Linux,
	// restricts that thread to a single CPU.
	PinWorkers bool

	// Metrics receives queueing and execution counters.
	Metrics MetricsPolicy

	// OnTaskPanic is called with an error wrapping ErrTaskPanicked when a
	// task panics. The worker recovers and keeps running.
	OnTaskPanic func(error)

	// Ctx carries the logger used for lifecycle events.
	Ctx context.Context
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}
