package bench

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCount is returned when a harness is asked for fewer than one run.
var ErrInvalidCount = errors.New("iteration count must be positive")

// Op is one timed invocation.
type Op func(ctx context.Context) error

// Result is the outcome of timing one strategy.
type Result struct {
	Label      string          `json:"label" yaml:"label"`
	Iterations int             `json:"iterations" yaml:"iterations"`
	Samples    []time.Duration `json:"-" yaml:"-"`

	// MeanMillis is the arithmetic mean of the samples in whole milliseconds.
	MeanMillis   float64      `json:"meanMs" yaml:"meanMs"`
	Distribution Distribution `json:"distribution" yaml:"distribution"`
}

// SampleMillis returns the samples truncated to whole milliseconds.
func (r *Result) SampleMillis() []int64 {
	out := make([]int64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Milliseconds()
	}
	return out
}

// Harness runs an operation repeatedly and measures each run.
type Harness struct {
	// Now is the clock used to time runs. It defaults to time.Now.
	Now func() time.Time
}

// NewHarness creates a harness timed by the wall clock.
func NewHarness() *Harness {
	return &Harness{Now: time.Now}
}

// Run invokes op count times, one after the other, and returns the mean
// elapsed time. It performs no warm-up. The first failing run stops the loop:
// no further runs happen and no Result is returned.
func (h *Harness) Run(ctx context.Context, label string, count int, op Op) (*Result, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%s: %w: %d", label, ErrInvalidCount, count)
	}

	now := h.Now
	if now == nil {
		now = time.Now
	}

	samples := make([]time.Duration, 0, count)
	recorder := newLatencyRecorder()
	var totalMillis int64

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: stopped before run %d: %w", label, i+1, err)
		}

		start := now()
		if err := op(ctx); err != nil {
			return nil, fmt.Errorf("%s: run %d of %d: %w", label, i+1, count, err)
		}
		elapsed := now().Sub(start)

		samples = append(samples, elapsed)
		recorder.record(elapsed)
		totalMillis += elapsed.Milliseconds()
	}

	return &Result{
		Label:        label,
		Iterations:   count,
		Samples:      samples,
		MeanMillis:   float64(totalMillis) / float64(count),
		Distribution: recorder.distribution(),
	}, nil
}
