package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(3, 16)
	defer p.Shutdown()

	var (
		ran atomic.Int32
		wg  sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		ok := p.Submit(Task{Work: func(ctx context.Context) error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}})
		if !ok {
			t.Fatalf("Submit %d rejected", i)
		}
	}
	wg.Wait()
	if n := ran.Load(); n != 10 {
		t.Fatalf("ran %d tasks, want 10", n)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const workers = 2
	p := NewPool(workers, 32)
	defer p.Shutdown()

	var (
		active, peak atomic.Int32
		wg           sync.WaitGroup
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		p.Submit(Task{Work: func(ctx context.Context) error {
			defer wg.Done()
			n := active.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return nil
		}})
	}
	wg.Wait()
	if got := peak.Load(); got > workers {
		t.Fatalf("peak concurrency %d, want at most %d", got, workers)
	}
}

func TestPoolReportsErrors(t *testing.T) {
	p := NewPool(1, 1)
	defer p.Shutdown()

	boom := errors.New("boom")
	errc := make(chan error, 1)
	p.Submit(Task{
		Work:    func(ctx context.Context) error { return boom },
		OnError: func(err error) { errc <- err },
	})
	select {
	case err := <-errc:
		if !errors.Is(err, boom) {
			t.Fatalf("OnError got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnError not called")
	}
}

func TestPoolSubmitWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	defer p.Shutdown()

	started := make(chan struct{})
	release := make(chan struct{})
	p.Submit(Task{Work: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started

	// the single worker is busy: one task fits the queue, the dispatcher
	// holds it while waiting for a worker, so at most two more are accepted
	accepted := 0
	for i := 0; i < 5; i++ {
		if p.Submit(Task{Work: func(ctx context.Context) error { return nil }}) {
			accepted++
		}
	}
	close(release)
	if accepted == 5 {
		t.Fatal("Submit never reported a full queue")
	}
}

func TestPoolSkipsCanceledTasks(t *testing.T) {
	p := NewPool(1, 4)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	p.Submit(Task{Ctx: ctx, Work: func(context.Context) error {
		ran.Store(true)
		return nil
	}})

	done := make(chan struct{})
	p.Submit(Task{Work: func(context.Context) error {
		close(done)
		return nil
	}})
	<-done
	if ran.Load() {
		t.Fatal("task with a canceled context ran")
	}
}

func TestPoolShutdown(t *testing.T) {
	p := NewPool(2, 4)
	var ran atomic.Bool
	started := make(chan struct{})
	p.Submit(Task{Work: func(ctx context.Context) error {
		close(started)
		time.Sleep(10 * time.Millisecond)
		ran.Store(true)
		return nil
	}})
	<-started
	p.Shutdown()
	if !ran.Load() {
		t.Fatal("Shutdown returned before the running task finished")
	}
	p.Shutdown()
	if p.Submit(Task{Work: func(context.Context) error { return nil }}) {
		t.Fatal("Submit accepted a task after Shutdown")
	}
}
