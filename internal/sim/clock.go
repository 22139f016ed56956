package sim

import (
	"time"

	"github.com/san-kum/damper/internal/dynamo"
)

// Clock reports the time elapsed since its previous Delta call, in seconds.
type Clock interface {
	Delta() float64
}

// FixedClock always reports the same step, like a locked frame rate.
type FixedClock float64

func (c FixedClock) Delta() float64 { return float64(c) }

type WallClock struct {
	now  func() time.Time
	last time.Time
}

func NewWallClock() *WallClock {
	return newWallClock(time.Now)
}

func newWallClock(now func() time.Time) *WallClock {
	return &WallClock{now: now, last: now()}
}

func (c *WallClock) Delta() float64 {
	t := c.now()
	d := t.Sub(c.last).Seconds()
	c.last = t
	return d
}

// Follower drives a damper from a clock, so callers only assign targets.
// A zero delta from the clock surfaces as dynamo.ErrInvalidTimestep.
type Follower[T any] struct {
	damper *dynamo.Damper[T]
	clock  Clock
}

func NewFollower[T any](d *dynamo.Damper[T], clock Clock) *Follower[T] {
	return &Follower[T]{damper: d, clock: clock}
}

func (f *Follower[T]) Set(target T) (T, error) {
	return f.damper.Update(f.clock.Delta(), target)
}

func (f *Follower[T]) Value() T { return f.damper.Value() }

func (f *Follower[T]) Damper() *dynamo.Damper[T] { return f.damper }
