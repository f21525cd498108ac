package logic

import "time"

// DefaultSettle is the debounce settle interval.
const DefaultSettle = 20 * time.Millisecond

// LevelReader reads the raw electrical level of one input line (true = high).
type LevelReader interface {
	Level() (bool, error)
}

// Debouncer confirms level changes on a single active-low button.
// A change is accepted only if the level still differs from the stable level
// after the settle interval. The wait blocks the caller.
type Debouncer struct {
	stable bool
	settle time.Duration
	wait   func(time.Duration)
}

// NewDebouncer creates a debouncer whose stable level starts high (released,
// pulled up).
func NewDebouncer(settle time.Duration, wait func(time.Duration)) *Debouncer {
	if wait == nil {
		wait = time.Sleep
	}
	return &Debouncer{
		stable: true,
		settle: settle,
		wait:   wait,
	}
}

// Pressed samples line and reports true exactly once per confirmed
// high-to-low transition. A bounce that reverts during the settle interval
// leaves the stable level untouched.
func (d *Debouncer) Pressed(line LevelReader) (bool, error) {
	current, err := line.Level()
	if err != nil {
		return false, err
	}
	if current == d.stable {
		return false, nil
	}

	d.wait(d.settle)

	again, err := line.Level()
	if err != nil {
		return false, err
	}
	if again != current {
		// Bounce
		return false, nil
	}

	d.stable = current
	return !current, nil
}

// Stable returns the last confirmed level.
func (d *Debouncer) Stable() bool {
	return d.stable
}
