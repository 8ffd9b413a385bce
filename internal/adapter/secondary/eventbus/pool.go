package eventbus

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/payflow/payment-engine/internal/core"
)

// OverflowPolicy decides what happens when a stage's queue is full
type OverflowPolicy string

const (
	// OverflowBlock makes Submit wait for queue space
	OverflowBlock OverflowPolicy = "block"
	// OverflowReject makes Submit fail with core.ErrQueueFull
	OverflowReject OverflowPolicy = "reject"
)

// PoolConfig bounds one pipeline stage
type PoolConfig struct {
	CorePoolSize  int
	MaxPoolSize   int
	QueueCapacity int
	Overflow      OverflowPolicy
}

func (c PoolConfig) normalized() PoolConfig {
	if c.CorePoolSize <= 0 {
		c.CorePoolSize = 1
	}
	if c.MaxPoolSize < c.CorePoolSize {
		c.MaxPoolSize = c.CorePoolSize
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 1
	}
	if c.Overflow == "" {
		c.Overflow = OverflowBlock
	}
	return c
}

// workerPool runs submitted tasks on a bounded set of goroutines fed by a
// bounded queue. Core workers start up front; extra workers up to the max
// are spawned only when the queue is full. Tasks are never silently dropped:
// a full queue either blocks the submitter or rejects the task, per policy.
type workerPool struct {
	cfg     PoolConfig
	tasks   chan func()
	workers int32
	wg      sync.WaitGroup
	closed  chan struct{}
}

func newWorkerPool(cfg PoolConfig) *workerPool {
	cfg = cfg.normalized()
	p := &workerPool{
		cfg:    cfg,
		tasks:  make(chan func(), cfg.QueueCapacity),
		closed: make(chan struct{}),
	}
	atomic.StoreInt32(&p.workers, int32(cfg.CorePoolSize))
	for i := 0; i < cfg.CorePoolSize; i++ {
		p.startWorker()
	}
	return p
}

func (p *workerPool) startWorker() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for task := range p.tasks {
			task()
		}
	}()
}

// submit enqueues a task. With the reject policy a full queue (at maximum
// pool size) returns core.ErrQueueFull; with the block policy it waits.
func (p *workerPool) submit(task func()) error {
	select {
	case <-p.closed:
		return fmt.Errorf("worker pool is shut down")
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
	}

	// Queue is full: grow towards the max before applying the policy.
	if p.tryGrow() {
		p.tasks <- task
		return nil
	}

	switch p.cfg.Overflow {
	case OverflowReject:
		return core.ErrQueueFull
	default:
		p.tasks <- task
		return nil
	}
}

func (p *workerPool) tryGrow() bool {
	for {
		n := atomic.LoadInt32(&p.workers)
		if int(n) >= p.cfg.MaxPoolSize {
			return false
		}
		if atomic.CompareAndSwapInt32(&p.workers, n, n+1) {
			p.startWorker()
			return true
		}
	}
}

// close drains the queue and waits for in-flight tasks
func (p *workerPool) close() {
	select {
	case <-p.closed:
		return
	default:
		close(p.closed)
	}
	close(p.tasks)
	p.wg.Wait()
}
