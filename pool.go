package prioritypool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Pool is a fixed-size worker pool that executes tasks in priority order.
//
// A Pool moves through four states. After New it is constructed: tasks
// may be submitted but nothing runs. Run starts the workers. Pause and
// Resume toggle whether workers may dequeue. Destroy (or Shutdown) stops
// the pool for good; it cannot be restarted.
//
// The queue and the lifecycle flags are guarded by a single mutex. Workers
// wait on a condition variable for "queue non-empty and not paused, or
// stopped". The lock is never held while a task executes.
type Pool struct {
	opts        Options
	threadCount int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   *prioQueue
	policy  Policy
	started bool
	stopped bool
	paused  bool
	idle    int

	wg            sync.WaitGroup
	activeWorkers atomic.Int32
}

// New creates a pool with the given options. Workers are not started
// until Run is called.
func New(opts Options) *Pool {
	opts.FillDefaults()
	p := &Pool{
		opts:        opts,
		threadCount: opts.Workers,
		queue:       newPrioQueue(),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// SetPolicy registers the policy used by UpdatePriority, replacing any
// previous one. A nil policy unregisters it.
func (p *Pool) SetPolicy(policy Policy) {
	p.mu.Lock()
	p.policy = policy
	p.mu.Unlock()
}

// Submit queues a task. It may be called before Run, while running, or
// while paused. The queue is unbounded and Submit never waits for a worker.
func (p *Pool) Submit(t Task) error {
	if t == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	p.queue.push(t)
	p.opts.Metrics.IncSubmitted()
	p.opts.Metrics.SetQueued(p.queue.size())
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// Run starts the workers and clears the paused flag. Calling Run on a
// pool that is already running does nothing. Run returns ErrPoolStopped
// once the pool has been destroyed.
func (p *Pool) Run() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	if p.started {
		p.mu.Unlock()
		return nil
	}

	p.started = true
	p.paused = false
	for i := 0; i < p.threadCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	queued := p.queue.size()
	p.mu.Unlock()

	lg.FromContext(p.opts.Ctx).Info("pool started",
		lg.Int("workers", p.threadCount),
		lg.Int("queued", queued),
	)
	return nil
}

// Pause stops workers from dequeuing. Tasks already executing run to
// completion and Submit keeps accepting work.
func (p *Pool) Pause() {
	p.mu.Lock()
	if p.stopped || p.paused {
		p.mu.Unlock()
		return
	}
	p.paused = true
	queued := p.queue.size()
	p.mu.Unlock()

	lg.FromContext(p.opts.Ctx).Info("pool paused", lg.Int("queued", queued))
}

// Resume lets workers dequeue again and wakes all of them.
func (p *Pool) Resume() {
	p.mu.Lock()
	if p.stopped || !p.paused {
		p.mu.Unlock()
		return
	}
	p.paused = false
	queued := p.queue.size()
	p.mu.Unlock()

	p.cond.Broadcast()
	lg.FromContext(p.opts.Ctx).Info("pool resumed", lg.Int("queued", queued))
}

// UpdatePriority runs the registered policy over every queued task and
// restores priority order before releasing the queue lock. Dequeue is
// paused for the duration of the pass; the previous paused state is
// restored afterwards.
//
// It returns ErrNoPolicy when no policy is registered.
func (p *Pool) UpdatePriority() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	if p.policy == nil {
		return ErrNoPolicy
	}

	wasPaused := p.paused
	p.paused = true
	defer func() { p.paused = wasPaused }()

	n := p.queue.reprioritize(p.policy)
	p.opts.Metrics.IncReprioritized(n)
	return nil
}

// Shutdown stops the pool: no further tasks are dequeued, idle workers
// exit, and tasks already executing finish. It waits until every worker
// has returned or ctx is done, whichever comes first, and then drops any
// tasks left in the queue.
//
// Shutdown is safe to call more than once. The pool cannot be restarted.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	already := p.stopped
	p.stopped = true
	p.paused = false
	p.mu.Unlock()

	p.cond.Broadcast()
	if !already {
		lg.FromContext(p.opts.Ctx).Info("pool stopping")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	p.mu.Lock()
	dropped := p.queue.drain()
	p.opts.Metrics.SetQueued(0)
	p.mu.Unlock()

	if dropped > 0 {
		lg.FromContext(p.opts.Ctx).Info("dropped queued tasks", lg.Int("dropped", dropped))
	}
	return err
}

// Destroy stops the pool and blocks until every worker has exited.
func (p *Pool) Destroy() { _ = p.Shutdown(context.Background()) }

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	if p.opts.PinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			lg.FromContext(p.opts.Ctx).Warn("cpu pinning failed", lg.Int("worker", id), lg.Any("error", err))
		}
	}

	for {
		t, ok := p.next()
		if !ok {
			return
		}
		p.execute(id, t)
	}
}

// next blocks until a task may be dequeued or the pool stops.
func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.idle++
	for !p.stopped && (p.paused || p.queue.size() == 0) {
		p.cond.Wait()
	}
	p.idle--

	if p.stopped {
		return nil, false
	}

	t, _ := p.queue.pop()
	p.opts.Metrics.SetQueued(p.queue.size())
	p.activeWorkers.Add(1)
	return t, true
}

func (p *Pool) execute(id int, t Task) {
	defer p.activeWorkers.Add(-1)
	defer p.opts.Metrics.IncExecuted()
	defer func() {
		if r := recover(); r != nil {
			p.opts.Metrics.IncPanicked()
			p.reportTaskPanic(id, r)
		}
	}()
	t.Execute()
}

// ThreadCount returns the fixed number of workers.
func (p *Pool) ThreadCount() int { return p.threadCount }

// ActiveWorkers returns the number of workers currently executing a task.
func (p *Pool) ActiveWorkers() int32 { return p.activeWorkers.Load() }

// IdleWorkers returns the number of workers blocked waiting for work.
func (p *Pool) IdleWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idle
}

// QueueLength returns the number of tasks waiting to be dequeued.
func (p *Pool) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.size()
}

// Paused reports whether dequeue is paused.
func (p *Pool) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Stopped reports whether the pool has been destroyed.
func (p *Pool) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}
