package workerpool

import (
	"errors"
	"sync"

	"github.com/panjf2000/ants/v2"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Pool is a bounded worker pool for fanning out independent lookups, such
// as resolving the per-network counts behind a total. It caps concurrent
// outbound requests so a burst of total-count calls cannot open an
// unbounded number of connections to the count APIs.
type Pool struct {
	pool *ants.Pool
}

// New creates a pool with the given worker cap
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = 8
	}

	p, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}

	return &Pool{pool: p}, nil
}

// Submit schedules one task, blocking while all workers are busy
func (p *Pool) Submit(task func()) error {
	if err := p.pool.Submit(task); err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// Run executes every task on the pool and waits for all of them. Submission
// failures degrade to running the task on the calling goroutine, so a batch
// always completes.
func (p *Pool) Run(tasks []func()) {
	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for _, task := range tasks {
		task := task
		wrapped := func() {
			defer wg.Done()
			task()
		}
		if err := p.Submit(wrapped); err != nil {
			wrapped()
		}
	}

	wg.Wait()
}

// Running reports the number of busy workers
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release stops the pool; pending submissions fail with ErrPoolClosed
func (p *Pool) Release() {
	p.pool.Release()
}
