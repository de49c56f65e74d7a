package engine

import "testing"

type manualClock struct {
	scheduled []func()
	canceled  int
}

func (c *manualClock) Schedule(fn func()) func() {
	i := len(c.scheduled)
	c.scheduled = append(c.scheduled, fn)
	return func() {
		if c.scheduled[i] != nil {
			c.scheduled[i] = nil
			c.canceled++
		}
	}
}

func (c *manualClock) tick() {
	fns := c.scheduled
	c.scheduled = nil
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

func TestSchedulerCancelsPrevious(t *testing.T) {
	clock := &manualClock{}
	renders := 0
	s := NewScheduler(clock, func() { renders++ })

	s.Request()
	s.Request()
	s.Request()
	if len(clock.scheduled) != 3 || clock.scheduled[2] == nil {
		t.Fatal("latest render not scheduled")
	}
	if clock.canceled != 2 {
		t.Fatalf("canceled %d renders, want 2", clock.canceled)
	}
	clock.tick()
	if renders != 1 {
		t.Fatalf("rendered %d times, want 1", renders)
	}

	s.Cancel() // nothing pending
	if clock.canceled != 2 {
		t.Fatalf("canceled %d renders, want 2", clock.canceled)
	}

	s.Request()
	s.Cancel()
	clock.tick()
	if renders != 1 {
		t.Fatal("canceled render ran")
	}
}

func TestFrameQueue(t *testing.T) {
	refresh := make(chan struct{}, 1)
	q := NewFrameQueue(refresh)

	var order []int
	q.Schedule(func() { order = append(order, 1) })
	cancel := q.Schedule(func() { order = append(order, 2) })
	q.Schedule(func() {
		order = append(order, 3)
		q.Schedule(func() { order = append(order, 4) })
	})
	cancel()

	if len(refresh) != 1 {
		t.Fatalf("refresh signals = %d, want 1", len(refresh))
	}
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	if n := q.Flush(); n != 2 {
		t.Fatalf("Flush ran %d callbacks, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Fatalf("order = %v, want [1 3]", order)
	}
	if q.Len() != 1 {
		t.Fatalf("callback scheduled during flush lost")
	}
	q.Flush()
	if len(order) != 3 || order[2] != 4 {
		t.Fatalf("order = %v, want [1 3 4]", order)
	}
	if q.Flush() != 0 {
		t.Fatal("empty queue ran callbacks")
	}
}

func TestReleaseFunc(t *testing.T) {
	var nilFn ReleaseFunc
	nilFn.Release()

	calls := 0
	ReleaseFunc(func() { calls++ }).Release()
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
