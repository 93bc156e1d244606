package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/apibench/internal/model"
	"github.com/wesleyorama2/apibench/internal/strategy"
)

// DefaultIterations is the number of timed runs per strategy.
const DefaultIterations = 100

// ErrNoPayload is returned when POST strategies are selected but no GET
// warm-up produced a payload to send.
var ErrNoPayload = errors.New("no payload available for POST strategies")

// WarmupPolicy decides what a failing warm-up call does to the run.
type WarmupPolicy string

const (
	// WarmupAbort stops the run on the first warm-up error.
	WarmupAbort WarmupPolicy = "abort"
	// WarmupIgnore logs warm-up errors and carries on.
	WarmupIgnore WarmupPolicy = "ignore"
)

// ParseWarmupPolicy converts s to a WarmupPolicy. Empty means WarmupAbort.
func ParseWarmupPolicy(s string) (WarmupPolicy, error) {
	switch WarmupPolicy(s) {
	case "", WarmupAbort:
		return WarmupAbort, nil
	case WarmupIgnore:
		return WarmupIgnore, nil
	default:
		return "", fmt.Errorf("invalid warm-up policy %q (want %s or %s)", s, WarmupAbort, WarmupIgnore)
	}
}

// Reporter receives each strategy's result as soon as it is available.
type Reporter interface {
	Report(result *Result) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(result *Result) error

// Report calls f(result).
func (f ReporterFunc) Report(result *Result) error {
	return f(result)
}

// Driver benchmarks a list of strategies in order.
type Driver struct {
	Harness    *Harness
	Strategies []strategy.Strategy
	Iterations int
	Warmup     WarmupPolicy
	Reporter   Reporter
	Logger     zerolog.Logger

	// Payload is sent by POST strategies. When nil, the result of the last
	// successful GET warm-up is used.
	Payload any
}

// Run warms every strategy once, then times each of them. Results reported
// before a failure are returned along with the error.
func (d *Driver) Run(ctx context.Context) ([]*Result, error) {
	harness := d.Harness
	if harness == nil {
		harness = NewHarness()
	}
	iterations := d.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}

	payload, err := d.warmUp(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(d.Strategies))
	for _, s := range d.Strategies {
		d.Logger.Debug().Str("strategy", s.Label).Int("iterations", iterations).Msg("benchmarking")

		result, err := harness.Run(ctx, s.Label, iterations, bind(s, payload))
		if err != nil {
			return results, err
		}
		results = append(results, result)

		d.Logger.Debug().
			Str("strategy", s.Label).
			Float64("mean_ms", result.MeanMillis).
			Dur("p99", result.Distribution.P99).
			Msg("benchmark finished")

		if d.Reporter != nil {
			if err := d.Reporter.Report(result); err != nil {
				return results, fmt.Errorf("reporting %s: %w", s.Label, err)
			}
		}
	}
	return results, nil
}

// warmUp calls each strategy once and returns the payload POSTs will send.
func (d *Driver) warmUp(ctx context.Context) (any, error) {
	policy := d.Warmup
	if policy == "" {
		policy = WarmupAbort
	}

	payload := d.Payload
	fromWarmup := payload == nil

	for _, s := range d.Strategies {
		var outcome strategy.Outcome[[]model.Record]
		if s.IsPost() {
			if payload == nil {
				return nil, fmt.Errorf("warm-up %s: %w", s.Label, ErrNoPayload)
			}
			outcome = strategy.Capture(ctx, func(ctx context.Context) ([]model.Record, error) {
				return nil, s.Post(ctx, payload)
			})
		} else {
			outcome = strategy.Capture(ctx, func(ctx context.Context) ([]model.Record, error) {
				return s.Get(ctx)
			})
			if outcome.OK() && fromWarmup {
				payload = outcome.Value
			}
		}

		if outcome.OK() {
			d.Logger.Debug().Str("strategy", s.Label).Msg("warmed up")
			continue
		}
		if policy == WarmupAbort || ctx.Err() != nil {
			return nil, fmt.Errorf("warm-up %s: %w", s.Label, outcome.Err)
		}
		d.Logger.Warn().
			Err(outcome.Err).
			Str("strategy", s.Label).
			Str("fault", outcome.Kind.String()).
			Msg("warm-up failed, continuing")
	}
	return payload, nil
}

func bind(s strategy.Strategy, payload any) Op {
	if s.IsPost() {
		return func(ctx context.Context) error {
			return s.Post(ctx, payload)
		}
	}
	return func(ctx context.Context) error {
		_, err := s.Get(ctx)
		return err
	}
}
