package bench

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// scripted returns an op that takes durations[i] on its i-th call.
func scripted(clock *fakeClock, durations ...time.Duration) (Op, *int) {
	calls := 0
	return func(context.Context) error {
		clock.advance(durations[calls%len(durations)])
		calls++
		return nil
	}, &calls
}

func TestHarness_Mean(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := &Harness{Now: clock.Now}

	op, calls := scripted(clock,
		10*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond,
		40*time.Millisecond, 50*time.Millisecond)

	result, err := h.Run(context.Background(), "scripted", 5, op)
	require.NoError(t, err)

	assert.Equal(t, 5, *calls)
	assert.Equal(t, "scripted", result.Label)
	assert.Equal(t, 5, result.Iterations)
	assert.Equal(t, 30.0, result.MeanMillis)
	assert.Equal(t, []int64{10, 20, 30, 40, 50}, result.SampleMillis())
}

func TestHarness_MeanUsesWholeMilliseconds(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := &Harness{Now: clock.Now}

	op, _ := scripted(clock, 1900*time.Microsecond, 2100*time.Microsecond)

	result, err := h.Run(context.Background(), "truncated", 2, op)
	require.NoError(t, err)
	assert.Equal(t, 1.5, result.MeanMillis)
}

func TestHarness_Distribution(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := &Harness{Now: clock.Now}

	durations := make([]time.Duration, 100)
	for i := range durations {
		durations[i] = time.Duration(i+1) * time.Millisecond
	}
	op, _ := scripted(clock, durations...)

	result, err := h.Run(context.Background(), "spread", len(durations), op)
	require.NoError(t, err)

	dist := result.Distribution
	assert.InDelta(t, float64(time.Millisecond), float64(dist.Min), float64(10*time.Microsecond))
	assert.InDelta(t, float64(50*time.Millisecond), float64(dist.P50), float64(100*time.Microsecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(dist.P95), float64(100*time.Microsecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(dist.P99), float64(100*time.Microsecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(dist.Max), float64(100*time.Microsecond))
}

func TestHarness_AbortsOnFailure(t *testing.T) {
	const count = 5
	boom := errors.New("boom")

	for failAt := 1; failAt <= count; failAt++ {
		t.Run(fmt.Sprintf("fail at %d", failAt), func(t *testing.T) {
			calls := 0
			op := func(context.Context) error {
				calls++
				if calls == failAt {
					return boom
				}
				return nil
			}

			result, err := NewHarness().Run(context.Background(), "failing", count, op)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, boom)
			assert.ErrorContains(t, err, fmt.Sprintf("failing: run %d of %d", failAt, count))
			assert.Equal(t, failAt, calls, "no invocation after the failing one")
		})
	}
}

func TestHarness_InvalidCount(t *testing.T) {
	for _, count := range []int{0, -3} {
		result, err := NewHarness().Run(context.Background(), "none", count, func(context.Context) error {
			t.Fatal("op must not run")
			return nil
		})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrInvalidCount)
	}
}

func TestHarness_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	op := func(context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return nil
	}

	result, err := NewHarness().Run(ctx, "canceled", 10, op)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestHarness_NilClockFallsBackToWallClock(t *testing.T) {
	result, err := (&Harness{}).Run(context.Background(), "wall", 2, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Len(t, result.Samples, 2)
}
