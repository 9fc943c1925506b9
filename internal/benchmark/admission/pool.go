// Package admission provides the bounded-concurrency permit pool.
package admission

import (
	"context"
	"fmt"
)

// Pool is a counting permit pool sized to the configured concurrency
// limit. One permit is held for the duration of one in-flight
// operation, independent of the pacer: the pacer decides when dispatch
// is allowed, the pool decides how many operations may be in flight at
// once.
//
// Pool is safe for concurrent use by any number of goroutines.
type Pool struct {
	size    int
	permits chan struct{}
}

// NewPool creates a pool holding size permits. A size < 1 is a
// configuration error.
func NewPool(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("admission: concurrency limit must be >= 1, got %d", size)
	}
	p := &Pool{
		size:    size,
		permits: make(chan struct{}, size),
	}
	for i := 0; i < size; i++ {
		p.permits <- struct{}{}
	}
	return p, nil
}

// Acquire blocks until a permit is available or ctx is cancelled.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case <-p.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the pool. Releasing a permit that was
// never acquired breaks the pool's accounting and panics: the pool is
// sized exactly, so an extra release is a defect in the driver, not a
// recoverable condition.
func (p *Pool) Release() {
	select {
	case p.permits <- struct{}{}:
	default:
		panic("admission: permit released without matching acquire")
	}
}

// Drain blocks until every permit is back in the pool, then returns
// them all. This is the end-of-phase barrier: once Drain returns, no
// operation admitted through this pool is still in flight, so the
// phase's results may be finalized.
func (p *Pool) Drain(ctx context.Context) error {
	taken := 0
	for taken < p.size {
		select {
		case <-p.permits:
			taken++
		case <-ctx.Done():
			for ; taken > 0; taken-- {
				p.permits <- struct{}{}
			}
			return ctx.Err()
		}
	}
	for ; taken > 0; taken-- {
		p.permits <- struct{}{}
	}
	return nil
}

// Size returns the configured permit count.
func (p *Pool) Size() int {
	return p.size
}
