package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted functions on a fixed number of goroutines. A pool of size 1
// runs every function inline in the submitting goroutine.
//
// A pool is single use: once Wait has returned, Do must not be called again.
type Pool struct {
	wg    sync.WaitGroup
	size  int
	work  chan func()
	close func()
}

// Start creates a pool with numWorkers goroutines, or GOMAXPROCS goroutines when
// numWorkers is less than 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		size:  numWorkers,
		close: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

func (p *Pool) Size() int {
	return p.size
}

// Do queues f, blocking while every worker is busy and the queue is full.
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait stops accepting work and blocks until every queued function has returned.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}

// Range calls f(i) for every i in [0, n) on the pool and waits for all of them.
func (p *Pool) Range(n int, f func(i int)) {
	for i := range n {
		p.Do(func() { f(i) })
	}
	p.Wait()
}
