package main

import (
	"context"
	"time"

	pp "github.com/Andrej220/go-utils/prioritypool"
	lg "github.com/Andrej220/go-utils/zlog"
)

// sleepTask stands in for real work: it sleeps for a fixed duration and
// logs when it starts and finishes.
type sleepTask struct {
	pp.BasePriority

	ctx context.Context
	id  int
	d   time.Duration
}

func newSleepTask(ctx context.Context, id int, d time.Duration) *sleepTask {
	return &sleepTask{ctx: ctx, id: id, d: d}
}

func (t *sleepTask) Execute() {
	logger := lg.FromContext(t.ctx).With(lg.Int("task", t.id))
	logger.Info("process", lg.String("sleep", t.d.String()), lg.Any("priority", t.Priority()))
	time.Sleep(t.d)
	logger.Info("over", lg.String("slept", t.d.String()))
}
