package roadmap

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantAfter(delays *[]time.Duration) func(time.Duration) <-chan time.Time {
	return func(d time.Duration) <-chan time.Time {
		*delays = append(*delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
}

func TestRevealShowsWeeksInOrder(t *testing.T) {
	var delays []time.Duration
	r := NewRevealer(250 * time.Millisecond)
	r.after = instantAfter(&delays)

	var shown []int
	require.NoError(t, r.Reveal(context.Background(), 3, func(n int) { shown = append(shown, n) }))
	assert.Equal(t, []int{1, 2, 3}, shown)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, delays)
}

func TestRevealCancelled(t *testing.T) {
	r := NewRevealer(0)
	assert.Equal(t, DefaultRevealDelay, r.Delay)
	r.after = func(time.Duration) <-chan time.Time { return make(chan time.Time) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var shown []int
	err := r.Reveal(ctx, 4, func(n int) { shown = append(shown, n) })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1}, shown)
}

func TestRunReturnsControllerToIdle(t *testing.T) {
	b := newGatedBackend()
	c := NewController(b, uuid.New())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Generate(context.Background(), "") }()
	waitFor(t, b.generate) <- reply{res: &Result{Roadmap: sample(), Version: 2}}
	require.NoError(t, waitFor(t, errCh))
	require.Equal(t, StateRevealing, c.State())

	var delays []time.Duration
	r := NewRevealer(time.Millisecond)
	r.after = instantAfter(&delays)
	r0, _ := c.Roadmap()
	var last int
	require.NoError(t, r.Run(context.Background(), c, Event{Kind: EventGenerated, Roadmap: r0}, func(n int) { last = n }))
	assert.Equal(t, 2, last)
	assert.Equal(t, StateIdle, c.State())
}
