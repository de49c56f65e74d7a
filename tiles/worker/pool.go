// Package worker runs tile loads on a bounded set of goroutines.
package worker

import (
	"context"
	"sync"
	"time"
)

const DefaultTimeout = 10 * time.Second

type Pool struct {
	workers chan struct{}
	tasks   chan Task
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	timeout time.Duration
}

type Task struct {
	Ctx     context.Context
	Work    func(ctx context.Context) error
	OnError func(error)
}

// NewPool starts a pool running at most maxWorkers tasks at once with room
// for queueSize waiting tasks.
func NewPool(maxWorkers, queueSize int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		workers: make(chan struct{}, maxWorkers),
		tasks:   make(chan Task, queueSize),
		quit:    make(chan struct{}),
		timeout: DefaultTimeout,
	}

	p.wg.Add(1)
	go p.dispatcher()
	return p
}

func (p *Pool) dispatcher() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			select {
			case p.workers <- struct{}{}:
			case <-p.quit:
				return
			}
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				defer func() { <-p.workers }()
				p.run(task)
			}()
		}
	}
}

func (p *Pool) run(task Task) {
	parent := task.Ctx
	if parent == nil {
		parent = context.Background()
	}
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	if err := task.Work(ctx); err != nil && task.OnError != nil {
		task.OnError(err)
	}
}

// Submit queues a task without blocking. It reports false when the queue is
// full or the pool has been shut down.
func (p *Pool) Submit(task Task) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops the dispatcher, drops queued tasks and waits for running
// ones. It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
}
