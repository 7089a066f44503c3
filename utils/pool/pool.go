package pool

import (
	"sync"
)

// Pool is a basic bounded work pool fed from a channel.
type Pool struct {
	workerQ chan struct{}
	f       func(job interface{})
	wg      sync.WaitGroup
}

// NewPool creates a new worker pool with a goroutine limit
// and a job function to execute on the incoming items.
func NewPool(routines int, job func(job interface{})) *Pool {
	q := make(chan struct{}, routines)
	for i := 0; i < routines; i++ {
		q <- struct{}{}
	}
	return &Pool{
		workerQ: q,
		f:       job,
	}
}

// Work is a blocking call that drains the input channel through the
// pool. It returns once the channel is closed; call Wait to block
// until the in-flight jobs have finished as well.
func (p *Pool) Work(c <-chan interface{}) {
	for v := range c {
		<-p.workerQ
		p.wg.Add(1)
		go func(job interface{}) {
			defer p.wg.Done()
			p.f(job)
			p.workerQ <- struct{}{}
		}(v)
	}
}

// Wait waits until the pool is finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
