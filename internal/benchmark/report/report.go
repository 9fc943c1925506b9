// Package report renders the final benchmark report.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/benchmark/engine"
	"github.com/dynobench/dynobench/internal/benchmark/metrics"
)

// The reported quantiles, in output order.
var percentiles = []struct {
	label string
	q     float64
}{
	{"p50", 0.50},
	{"p90", 0.90},
	{"p95", 0.95},
	{"p99", 0.99},
	{"p99.9", 0.999},
}

// Renderer writes the benchmark report. The shape is fixed: latency
// figures in milliseconds with 3 decimal digits, throughput with 1.
// Outcome counts are colorized when the writer is a terminal, with
// failures visibly distinguished from successes.
type Renderer struct {
	w       io.Writer
	verbose bool

	success *color.Color
	failure *color.Color
}

// NewRenderer creates a renderer writing to w. Color is enabled only
// when w is a terminal. Verbose adds the run ID and the supplementary
// mean/stddev block.
func NewRenderer(w io.Writer, verbose bool) *Renderer {
	r := &Renderer{
		w:       w,
		verbose: verbose,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
	}
	if !writerIsTerminal(w) {
		r.success.DisableColor()
		r.failure.DisableColor()
	}
	return r
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes the full report for a completed run: the error list
// first when non-empty, then latency statistics, throughput, and the
// outcome breakdown. A run that collected no samples still reports its
// outcome breakdown, but has no latency distribution to print.
func (r *Renderer) Render(res *engine.Result) error {
	if len(res.Errors) > 0 {
		fmt.Fprintf(r.w, "Received %d errors:\n", len(res.Errors))
		for _, err := range res.Errors {
			r.failure.Fprintln(r.w, err.Error())
		}
	}

	if r.verbose {
		fmt.Fprintf(r.w, "Run: %s\n", res.RunID)
	}

	if res.Samples > 0 {
		if err := r.renderLatency(res); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.w, "Throughput: %.1f queries/second\n", res.Throughput())
	r.renderOutcomes(res.Outcomes)
	return nil
}

func (r *Renderer) renderLatency(res *engine.Result) error {
	min, err := metrics.Quantile(res.SortedDurations, 0)
	if err != nil {
		return err
	}
	max, err := metrics.Quantile(res.SortedDurations, 1)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.w, "Latency Statistics (milliseconds):")
	fmt.Fprintf(r.w, "Min: %.3f\n", millis(min))
	fmt.Fprintf(r.w, "Max: %.3f\n", millis(max))
	if r.verbose {
		fmt.Fprintf(r.w, "Mean: %.3f\n", millis(res.Latency.Mean))
		fmt.Fprintf(r.w, "Stddev: %.3f\n", millis(res.Latency.StdDev))
	}

	fmt.Fprintln(r.w, "Percentiles:")
	for _, p := range percentiles {
		v, err := metrics.Quantile(res.SortedDurations, p.q)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.w, "%s: %.3f\n", p.label, millis(v))
	}
	return nil
}

// renderOutcomes prints the classification breakdown: success keys in
// sorted order, the error key last.
func (r *Renderer) renderOutcomes(outcomes map[benchmark.OutcomeKey]int) {
	fmt.Fprintln(r.w, "Response stats:")

	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		if k != benchmark.KeyError {
			keys = append(keys, string(k))
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(r.w, "%s: %d responses\n", r.success.Sprint(k), outcomes[benchmark.OutcomeKey(k)])
	}
	if n, ok := outcomes[benchmark.KeyError]; ok {
		fmt.Fprintf(r.w, "%s: %d responses\n", r.failure.Sprint(string(benchmark.KeyError)), n)
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
