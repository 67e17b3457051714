package systems

import (
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the minimum element count worth splitting
// across workers. Below this, one goroutine is faster.
const DefaultParallelThreshold = 4096

// workChunk is one contiguous range of elements for a worker.
type workChunk struct {
	start, end int
	fn         func(start, end int)
}

// Pool runs data-parallel stages on persistent worker goroutines. Each call to
// Run is a full barrier: it returns only after every chunk has finished.
type Pool struct {
	numWorkers int
	threshold  int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS; threshold <= 0 uses
// DefaultParallelThreshold. Workers start lazily on the first parallel Run.
func NewPool(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &Pool{numWorkers: workers, threshold: threshold}
}

// Workers returns the worker count.
func (p *Pool) Workers() int { return p.numWorkers }

func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Close signals all workers to exit and waits for them. The pool can be
// reused afterwards; workers restart on the next parallel Run.
func (p *Pool) Close() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Run calls fn over [0, n) split into at most one chunk per worker, and waits
// for all of them. Small n runs inline on the caller's goroutine.
func (p *Pool) Run(n int, fn func(start, end int)) {
	p.RunWeighted(n, 1, fn)
}

// RunWeighted is Run for elements that each cost about weight units of work,
// such as rows of a grid. The threshold applies to n*weight.
func (p *Pool) RunWeighted(n, weight int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n*weight < p.threshold || p.numWorkers == 1 || n == 1 {
		fn(0, n)
		return
	}

	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
