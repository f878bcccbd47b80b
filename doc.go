// Package prioritypool provides a fixed-size worker pool that executes
// tasks in priority order.
//
// Architecture overview
//
// The pool is composed of three loosely coupled parts:
//
//   1. Scheduling (prioQueue)
//      A max-heap of queued tasks keyed by Task.Priority. The task with
//      the numerically greatest priority is always dequeued first; ties
//      are broken arbitrarily.
//
//   2. Execution (Pool / workers)
//      A fixed number of workers, set once at construction, repeatedly
//      remove the highest-priority task and execute it outside the lock.
//
//   3. Re-prioritization (Policy)
//      A pluggable Policy recomputes the priorities of queued tasks on
//      demand. The heap is rebuilt after every pass so dequeue order
//      always follows the new priorities.
//
// Lifecycle
//
// A pool is created with New (or obtained with Instance), accepts tasks
// immediately, and starts executing them after Run. Pause blocks dequeue
// without interrupting running tasks; Resume wakes every worker. Destroy
// stops the pool, waits for every worker to exit, and drops whatever is
// still queued. A destroyed pool cannot be restarted.
//
// Synchronization
//
// The queue and the lifecycle flags share a single mutex. Workers wait on
// a condition variable for "queue non-empty and not paused, or stopped",
// so they never poll. The lock is held only for heap operations and the
// re-prioritization scan, never while a task executes.
//
// Error handling
//
// Tasks do not return errors to the pool. A task that can fail reports
// its own failure, for example through RetryTask.OnFailure. Panics inside
// tasks are recovered, logged and passed to Options.OnTaskPanic so the
// worker keeps running. Misuse of the lifecycle (submitting after Destroy,
// UpdatePriority without a Policy) is reported with sentinel errors.
//
// CPU pinning
//
// With Options.PinWorkers each worker is locked to its own OS thread and,
// on Linux, restricted to a single CPU core.
package prioritypool
