package prioritypool

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// RetryTask runs a fallible function and retries it with exponential
// backoff until it succeeds or the attempts run out.
//
// The pool never sees the error. A task that exhausts its attempts logs
// the last error and hands it to OnFailure.
type RetryTask struct {
	BasePriority

	// Name identifies the task in log lines.
	Name string

	Fn    func() error
	Retry RetryPolicy

	// OnFailure, if set, receives the error of the final attempt.
	OnFailure func(error)

	// Ctx carries the logger and stops the backoff wait when canceled.
	Ctx context.Context
}

// NewRetryTask returns a RetryTask with the given priority and policy.
func NewRetryTask(priority float64, name string, fn func() error, rp RetryPolicy) *RetryTask {
	t := &RetryTask{Name: name, Fn: fn, Retry: rp}
	t.SetPriority(priority)
	return t
}

// Execute calls Fn, sleeping between failed attempts.
func (t *RetryTask) Execute() {
	ctx := t.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := lg.FromContext(ctx).With(lg.String("task", t.Name))

	pol := t.Retry.withDefaults()
	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for attempt := 1; attempt <= pol.Attempts; attempt++ {
		err := t.Fn()
		if err == nil {
			return
		}
		if attempt == pol.Attempts {
			logger.Error("task failed", lg.Int("attempt", attempt), lg.Any("error", err))
			t.fail(err)
			return
		}

		delay := bo.Next()
		logger.Warn("task attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Info("task canceled", lg.Any("reason", ctx.Err()))
			t.fail(ctx.Err())
			return
		}
	}
}

func (t *RetryTask) fail(err error) {
	if t.OnFailure != nil {
		t.OnFailure(err)
	}
}
