// Package schedule suspends the run until the configured mint time.
package schedule

import (
	"context"
	"fmt"
	"time"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// Target is the absolute instant minting should start at.
type Target struct {
	At time.Time
}

func At(t time.Time) Target { return Target{At: t} }

// In is a countdown of d starting at now.
func In(d time.Duration, now time.Time) Target { return Target{At: now.Add(d)} }

// ParseDateTime reads "YYYY-MM-DD HH:MM:SS" in loc.
func ParseDateTime(s string, loc *time.Location) (Target, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err != nil {
		return Target{}, fmt.Errorf("parse schedule time: %w", err)
	}
	return At(t), nil
}

// Waiter blocks until a Target, reporting progress every Tick.
type Waiter struct {
	Tick   time.Duration
	Now    func() time.Time
	OnTick func(remaining time.Duration)
}

func NewWaiter(onTick func(time.Duration)) *Waiter {
	return &Waiter{Tick: time.Second, Now: time.Now, OnTick: onTick}
}

func (w *Waiter) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// Remaining is how long until t, non-positive once it has passed.
func (w *Waiter) Remaining(t Target) time.Duration {
	return t.At.Sub(w.now())
}

// Await suspends until t is reached. It reports waited=false without
// blocking when t is not in the future. The wait stops early only when
// ctx is done, returning ctx.Err().
func (w *Waiter) Await(ctx context.Context, t Target) (waited bool, err error) {
	d := w.Remaining(t)
	if d <= 0 {
		return false, nil
	}

	tick := w.Tick
	if tick <= 0 {
		tick = time.Second
	}
	deadline := time.NewTimer(d)
	defer deadline.Stop()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-deadline.C:
			return true, nil
		case <-ticker.C:
			if rem := w.Remaining(t); rem > 0 && w.OnTick != nil {
				w.OnTick(rem)
			}
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}
}

// FormatCountdown renders d as HH:MM:SS, floored to whole seconds.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}
