package roadmap

import (
	"context"
	"time"
)

// DefaultRevealDelay is the pause between weeks when showing a freshly
// generated roadmap.
const DefaultRevealDelay = 400 * time.Millisecond

// Revealer turns a Generated event into per-week reveal ticks. The delay is
// cosmetic and unrelated to request progress.
type Revealer struct {
	Delay time.Duration
	after func(time.Duration) <-chan time.Time
}

func NewRevealer(delay time.Duration) *Revealer {
	if delay <= 0 {
		delay = DefaultRevealDelay
	}
	return &Revealer{Delay: delay, after: time.After}
}

// Reveal calls show(1), show(2) ... show(weeks), waiting Delay before each
// week after the first. It returns early with ctx.Err() when cancelled.
func (r *Revealer) Reveal(ctx context.Context, weeks int, show func(visible int)) error {
	for i := 1; i <= weeks; i++ {
		if i > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.after(r.Delay):
			}
		}
		show(i)
	}
	return nil
}

// Run reveals the roadmap of a Generated event and then tells the controller
// the reveal finished, even when cancelled.
func (r *Revealer) Run(ctx context.Context, c *Controller, ev Event, show func(visible int)) error {
	defer c.RevealDone()
	return r.Reveal(ctx, len(ev.Roadmap.Weeks), show)
}
