package proofs

import (
	"context"
	"errors"
	"sync"

	"github.com/gammazero/workerpool"
)

// ErrPoolClosed is reported for work submitted after Close.
var ErrPoolClosed = errors.New("proofs: pool closed")

// Result is the outcome of one task.
type Result struct {
	OK  bool
	Err error
}

// Task is a unit of verification work.
type Task func(ctx context.Context) (bool, error)

// Job is one proof verification.
type Job struct {
	Proof           []byte
	VerificationKey []byte
	PublicInput     []string
}

// Pool runs tasks on a fixed number of workers. It must be closed with Close.
type Pool struct {
	mu     sync.RWMutex
	wp     *workerpool.WorkerPool
	closed bool
}

// NewPool starts size workers. A size below one is raised to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{wp: workerpool.New(size)}
}

// Close waits for queued tasks and stops the workers. It is safe to call
// more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.wp.StopWait()
}

// Run executes tasks concurrently and returns their results in input order.
// Tasks not started before ctx is done report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		for i := range results {
			results[i].Err = ErrPoolClosed
		}
		return results
	}
	var wg sync.WaitGroup
	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		p.wp.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			ok, err := task(ctx)
			results[i] = Result{OK: ok, Err: err}
		})
	}
	p.mu.RUnlock()

	wg.Wait()
	return results
}

// VerifyAll checks every job with v.
func (p *Pool) VerifyAll(ctx context.Context, v Verifier, jobs []Job) []Result {
	tasks := make([]Task, len(jobs))
	for i, job := range jobs {
		job := job
		tasks[i] = func(ctx context.Context) (bool, error) {
			return v.Verify(ctx, job.Proof, job.VerificationKey, job.PublicInput)
		}
	}
	return p.Run(ctx, tasks)
}
