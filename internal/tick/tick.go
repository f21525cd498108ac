// Package tick provides the millisecond tick source that blinks the power
// indicator. It stands in for the board's timer interrupt: Tick is the
// interrupt body and Run calls it from a dedicated goroutine.
package tick

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultPeriod is the tick interval.
const DefaultPeriod = time.Millisecond

// BlinkTicks is the number of ticks between indicator toggles (5 Hz blink at 1 ms).
const BlinkTicks = 100

// Indicator is the status line owned by the tick source.
type Indicator interface {
	SetStatus(on bool)
}

// Source counts ticks while the system is active.
// Only Tick touches the indicator; the active flag is read-only here.
type Source struct {
	active *atomic.Bool
	led    Indicator
	count  int
	on     bool
	ticks  atomic.Uint64
}

// New creates a tick source reading the shared active flag.
func New(active *atomic.Bool, led Indicator) *Source {
	return &Source{active: active, led: led}
}

// Tick is one timer interrupt. It never blocks. The count restarts while
// inactive, so the indicator stays dark for the first BlinkTicks after
// power-on.
func (s *Source) Tick() {
	s.ticks.Add(1)

	if !s.active.Load() {
		s.count = 0
		s.on = false
		s.led.SetStatus(false)
		return
	}

	s.count++
	if s.count >= BlinkTicks {
		s.on = !s.on
		s.led.SetStatus(s.on)
		s.count = 0
	}
}

// Ticks returns the number of Tick calls so far.
func (s *Source) Ticks() uint64 {
	return s.ticks.Load()
}

// Run calls Tick every period until ctx is cancelled.
func (s *Source) Run(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = DefaultPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
