package metrics

import (
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/logging"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histMin     = 1
	histMax     = 3600000000
	histSigFigs = 3
)

// Collector consumes the stream of per-operation results from the
// measured phase. A single consumer goroutine owns the outcome
// histogram, the duration list, the HDR histogram, and the error list;
// the operation goroutines communicate with it exclusively through a
// bounded channel, so no aggregate needs a lock.
//
// The channel is sized to the exact number of expected samples, which
// makes Record non-blocking by construction: a full channel means the
// driver dispatched more operations than configured.
type Collector struct {
	expected int
	samples  chan benchmark.Sample
	done     chan struct{}

	// Owned by the consumer goroutine until done is closed.
	durations []time.Duration
	outcomes  map[benchmark.OutcomeKey]int
	errs      []error
	hist      *hdrhistogram.Histogram
}

// Aggregates is the finalized output of a collector: everything the
// report builder needs, valid only after the phase has fully drained.
type Aggregates struct {
	// SortedDurations holds every measured duration in ascending order.
	SortedDurations []time.Duration

	// Outcomes maps each classification key, including KeyError, to its
	// occurrence count.
	Outcomes map[benchmark.OutcomeKey]int

	// Errors retains each operation failure's cause in arrival order.
	Errors []error

	// Latency carries supplementary HDR-histogram statistics.
	Latency LatencySummary
}

// LatencySummary contains distribution statistics that the exact
// rank-based quantiles do not cover.
type LatencySummary struct {
	Mean   time.Duration
	StdDev time.Duration
}

// NewCollector creates a collector expecting exactly `expected` samples
// and starts its consumer goroutine.
func NewCollector(expected int) *Collector {
	c := &Collector{
		expected:  expected,
		samples:   make(chan benchmark.Sample, expected),
		done:      make(chan struct{}),
		durations: make([]time.Duration, 0, expected),
		outcomes:  make(map[benchmark.OutcomeKey]int),
		hist:      hdrhistogram.New(histMin, histMax, histSigFigs),
	}
	go c.consume()
	return c
}

// Record delivers one sample to the consumer. Never blocks: capacity
// equals the configured sample count, so overflow is an invariant
// violation (a dispatch accounting bug) and panics.
func (c *Collector) Record(s benchmark.Sample) {
	select {
	case c.samples <- s:
	default:
		panic("metrics: sample channel overflow, more results than dispatched operations")
	}
}

func (c *Collector) consume() {
	defer close(c.done)
	for s := range c.samples {
		c.durations = append(c.durations, s.Elapsed)

		micros := s.Elapsed.Microseconds()
		if micros < histMin {
			micros = histMin
		}
		if micros > histMax {
			micros = histMax
		}
		_ = c.hist.RecordValue(micros)

		if s.Err != nil {
			c.outcomes[benchmark.KeyError]++
			c.errs = append(c.errs, s.Err)
		} else {
			c.outcomes[s.Key]++
		}

		if n := len(c.durations); n%10 == 0 || n == c.expected {
			logging.Debugf("Completed %d/%d queries", n, c.expected)
		}
	}
}

// Finalize closes the sample stream, waits for the consumer to drain
// it, and returns the aggregates with durations sorted ascending.
//
// Call only after the phase's full drain: every in-flight operation
// must already have recorded its sample, otherwise the aggregates would
// be partial.
func (c *Collector) Finalize() *Aggregates {
	close(c.samples)
	<-c.done

	sort.Slice(c.durations, func(i, j int) bool {
		return c.durations[i] < c.durations[j]
	})

	return &Aggregates{
		SortedDurations: c.durations,
		Outcomes:        c.outcomes,
		Errors:          c.errs,
		Latency: LatencySummary{
			Mean:   time.Duration(c.hist.Mean() * float64(time.Microsecond)),
			StdDev: time.Duration(c.hist.StdDev() * float64(time.Microsecond)),
		},
	}
}
