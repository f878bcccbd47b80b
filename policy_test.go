package prioritypool_test

import (
	"testing"
	"time"

	pp "github.com/Andrej220/go-utils/prioritypool"
)

func TestRandomPolicyRange(t *testing.T) {
	pol := pp.NewRandomPolicy(100, 42)
	task := pp.NewTask(-1, nil)

	seen := make(map[float64]struct{})
	for range 1000 {
		pol.Adjust(task)
		got := task.Priority()
		if got < 0 || got >= 100 {
			t.Fatalf("priority = %v; want in [0, 100)", got)
		}
		seen[got] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatal("random policy produced a constant priority")
	}
}

func TestRandomPolicySeeded(t *testing.T) {
	a, b := pp.NewRandomPolicy(10, 7), pp.NewRandomPolicy(10, 7)
	ta, tb := pp.NewTask(0, nil), pp.NewTask(0, nil)
	for range 10 {
		a.Adjust(ta)
		b.Adjust(tb)
		if ta.Priority() != tb.Priority() {
			t.Fatalf("same seed gave %v and %v", ta.Priority(), tb.Priority())
		}
	}
}

func TestAgingPolicy(t *testing.T) {
	task := pp.NewTask(1.5, nil)
	pol := pp.AgingPolicy{Step: 0.5}
	pol.Adjust(task)
	pol.Adjust(task)
	if got := task.Priority(); got != 2.5 {
		t.Fatalf("priority = %v; want 2.5", got)
	}
}

func TestAgingPolicyLetsOldTasksOvertake(t *testing.T) {
	p, _ := newTestPool(t, 1)
	p.SetPolicy(pp.AgingPolicy{Step: 10})

	var rec recorder
	_ = p.Submit(rec.task(0, 5))
	for range 3 {
		if err := p.UpdatePriority(); err != nil {
			t.Fatalf("update priority: %v", err)
		}
	}
	_ = p.Submit(rec.task(1, 20))

	if err := p.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	waitGroup(t, &rec.wg, time.Second)

	if got := rec.started(); len(got) != 2 || got[0] != 0 {
		t.Fatalf("execution order = %v; want aged task 0 first", got)
	}
}
