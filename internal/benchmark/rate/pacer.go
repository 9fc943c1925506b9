// Package rate provides the dispatch pacer for the benchmark driver.
package rate

import (
	"context"
	"fmt"
	"time"
)

// Pacer emits dispatch authorizations ("ticks") at a fixed target rate.
//
// Scheduling is absolute: tick n is due at origin + n*period, measured
// from a fixed origin instant rather than from the previous tick, so a
// slow dispatch does not compound into growing intervals. If the caller
// overran a period, the next Tick returns immediately; no tick is ever
// skipped.
//
// # Pending ticks
//
// Tick is synchronous and blocks its caller, so the pacer never queues
// authorizations internally: at most one overdue tick is issued
// back-to-back, and the caller must dispatch it before asking for the
// next one.
//
// Pacer is not safe for concurrent use. The phase executor is its only
// caller.
type Pacer struct {
	period time.Duration
	origin time.Time
	issued int64 // ticks issued since origin
}

// NewPacer creates a pacer that authorizes dispatches at rate per
// second. The first tick is due immediately. A rate <= 0 is a
// configuration error and is rejected before any dispatch.
func NewPacer(rate float64) (*Pacer, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("rate: target rate must be > 0, got %g", rate)
	}
	return &Pacer{
		period: time.Duration(float64(time.Second) / rate),
		origin: time.Now(),
	}, nil
}

// Tick blocks until the next scheduled dispatch instant and returns it.
// Overdue ticks return immediately. Returns the context's error if ctx
// is cancelled while waiting.
func (p *Pacer) Tick(ctx context.Context) (time.Time, error) {
	due := p.origin.Add(time.Duration(p.issued) * p.period)
	p.issued++

	wait := time.Until(due)
	if wait <= 0 {
		return due, nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case <-timer.C:
		return due, nil
	}
}

// Reset re-anchors the schedule origin at the current instant. The
// executor calls this at the phase boundary so the measured phase does
// not inherit overrun debt from warmup.
func (p *Pacer) Reset() {
	p.origin = time.Now()
	p.issued = 0
}

// Period returns the interval between scheduled ticks.
func (p *Pacer) Period() time.Duration {
	return p.period
}
