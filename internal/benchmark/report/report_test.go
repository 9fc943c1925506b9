package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/benchmark/engine"
	"github.com/dynobench/dynobench/internal/benchmark/metrics"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		RunID:   "test-run",
		Samples: 5,
		Elapsed: 500 * time.Millisecond,
		SortedDurations: []time.Duration{
			10 * time.Millisecond,
			20 * time.Millisecond,
			30 * time.Millisecond,
			40 * time.Millisecond,
			50 * time.Millisecond,
		},
		Outcomes: map[benchmark.OutcomeKey]int{
			benchmark.ItemCountKey(7): 4,
			benchmark.KeyError:        1,
		},
		Errors: []error{errors.New("throttled")},
		Latency: metrics.LatencySummary{
			Mean:   30 * time.Millisecond,
			StdDev: 14 * time.Millisecond,
		},
	}
}

func TestRenderer_FixedShape(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult()
	res.Errors = nil
	delete(res.Outcomes, benchmark.KeyError)
	res.Outcomes[benchmark.ItemCountKey(7)] = 5

	if err := NewRenderer(&buf, false).Render(res); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `Latency Statistics (milliseconds):
Min: 10.000
Max: 50.000
Percentiles:
p50: 30.000
p90: 50.000
p95: 50.000
p99: 50.000
p99.9: 50.000
Throughput: 10.0 queries/second
Response stats:
7 items: 5 responses
`
	if got := buf.String(); got != want {
		t.Errorf("report mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderer_ErrorsPrintedFirst(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, false).Render(sampleResult()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	errIdx := strings.Index(out, "Received 1 errors:")
	latIdx := strings.Index(out, "Latency Statistics")
	if errIdx == -1 {
		t.Fatalf("error header missing from report:\n%s", out)
	}
	if !strings.Contains(out, "throttled") {
		t.Errorf("error cause missing from report:\n%s", out)
	}
	if errIdx > latIdx {
		t.Errorf("errors must precede the latency report:\n%s", out)
	}
}

func TestRenderer_ErrorKeyLast(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, false).Render(sampleResult()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	okIdx := strings.Index(out, "7 items: 4 responses")
	errIdx := strings.Index(out, "error: 1 responses")
	if okIdx == -1 || errIdx == -1 {
		t.Fatalf("outcome lines missing:\n%s", out)
	}
	if errIdx < okIdx {
		t.Errorf("error key should be listed after success keys:\n%s", out)
	}
}

func TestRenderer_Verbose(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, true).Render(sampleResult()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Run: test-run", "Mean: 30.000", "Stddev: 14.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_NoSamples(t *testing.T) {
	var buf bytes.Buffer
	res := &engine.Result{
		RunID:    "empty-run",
		Outcomes: map[benchmark.OutcomeKey]int{},
	}
	if err := NewRenderer(&buf, false).Render(res); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "Latency Statistics") {
		t.Errorf("empty run must not print a latency block:\n%s", out)
	}
	if !strings.Contains(out, "Throughput: 0.0 queries/second") {
		t.Errorf("empty run should report zero throughput:\n%s", out)
	}
	if !strings.Contains(out, "Response stats:") {
		t.Errorf("response stats header missing:\n%s", out)
	}
}

func TestRenderer_FormatsThreeDecimals(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult()
	res.SortedDurations = []time.Duration{1234567 * time.Nanosecond} // 1.234ms
	res.Samples = 1
	res.Errors = nil

	if err := NewRenderer(&buf, false).Render(res); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Min: 1.234") {
		t.Errorf("durations should render with 3 decimal digits:\n%s", buf.String())
	}
}
