// Package lz4pool provides the "external collaborator" worker pool spec
// §5 describes for parallel independent-block frame encoding: a bounded
// set of goroutines, sized to the container's real CPU quota, that
// compress many blocks concurrently and report the first error.
package lz4pool

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

var maxprocsOnce sync.Once

// DefaultWorkers returns a worker count sized to the process's real CPU
// quota (spec §5 "sizes the default worker pool to the container's real
// CPU quota"), calling automaxprocs exactly once per process so
// GOMAXPROCS reflects cgroup limits even under a container runtime that
// misreports NumCPU.
func DefaultWorkers() int {
	maxprocsOnce.Do(func() {
		// Errors (no cgroup, unsupported platform) are expected outside
		// containers and are not fatal; GOMAXPROCS is simply left as-is.
		_, _ = maxprocs.Set()
	})
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// Job is one unit of independent block-compression work (spec §5
// "submit(job)").
type Job struct {
	Src, Dst []byte
	// Compress runs in a pool goroutine and must write into Dst,
	// returning the number of bytes written.
	Compress func(src, dst []byte) (int, error)

	N   int
	err error
}

// Pool runs a bounded set of Jobs concurrently (spec §5's
// create(N,queueDepth)/submit(job)/completeAll() contract, expressed as
// Go's errgroup+semaphore idiom rather than an explicit queue: submitted
// jobs block once N are already in flight, which is queueDepth==0
// behaviour; callers wanting a deeper queue can submit from their own
// goroutine).
type Pool struct {
	sem   chan struct{}
	group *errgroup.Group
	ctx   context.Context
}

// New creates a pool that runs at most n jobs concurrently. n <= 0
// selects DefaultWorkers.
func New(ctx context.Context, n int) *Pool {
	if n <= 0 {
		n = DefaultWorkers()
	}
	g, gctx := errgroup.WithContext(ctx)
	return &Pool{sem: make(chan struct{}, n), group: g, ctx: gctx}
}

// Submit schedules job to run, blocking if the pool is already at
// capacity. The first job to fail cancels the pool's context; later
// Submit calls still accept work (matching errgroup semantics) but
// CompleteAll surfaces the first error.
func (p *Pool) Submit(job *Job) {
	p.sem <- struct{}{}
	p.group.Go(func() error {
		defer func() { <-p.sem }()
		n, err := job.Compress(job.Src, job.Dst)
		job.N, job.err = n, err
		return err
	})
}

// CompleteAll waits for every submitted Job to finish and returns the
// first error encountered, if any (spec §5 "completeAll()").
func (p *Pool) CompleteAll() error {
	return p.group.Wait()
}
