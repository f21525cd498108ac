package gpio

import (
	"sync"

	"github.com/sweeney/buzzer-sweep/internal/logic"
)

// FakeBoard is a test double with settable button levels that records
// everything written to the outputs. Safe for concurrent use so the tick
// source and the control loop can share it.
type FakeBoard struct {
	mu sync.Mutex

	levels  [logic.ButtonCount]bool
	readErr [logic.ButtonCount]error
	showErr error

	level   bool
	sets    int
	toggles int
	status  []bool
	shown   []logic.Indicators
	closed  bool
	onRead  func(b logic.Button)
}

// NewFakeBoard returns a board with every button released.
func NewFakeBoard() *FakeBoard {
	f := &FakeBoard{}
	for i := range f.levels {
		f.levels[i] = true
	}
	return f
}

// Hold sets a button pressed (line low) or released.
func (f *FakeBoard) Hold(b logic.Button, pressed bool) {
	f.mu.Lock()
	f.levels[b] = !pressed
	f.mu.Unlock()
}

// SetReadError makes reads of b fail with err (nil clears it).
func (f *FakeBoard) SetReadError(b logic.Button, err error) {
	f.mu.Lock()
	f.readErr[b] = err
	f.mu.Unlock()
}

// SetShowError makes indicator refreshes fail with err (nil clears it).
func (f *FakeBoard) SetShowError(err error) {
	f.mu.Lock()
	f.showErr = err
	f.mu.Unlock()
}

// OnRead registers a hook called (without the lock held) before each button read.
func (f *FakeBoard) OnRead(fn func(b logic.Button)) {
	f.mu.Lock()
	f.onRead = fn
	f.mu.Unlock()
}

// ReadButton returns the scripted level of b.
func (f *FakeBoard) ReadButton(b logic.Button) (bool, error) {
	f.mu.Lock()
	hook := f.onRead
	f.mu.Unlock()
	if hook != nil {
		hook(b)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr[b] != nil {
		return false, f.readErr[b]
	}
	return f.levels[b], nil
}

// Show records an indicator refresh.
func (f *FakeBoard) Show(ind logic.Indicators) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.showErr != nil {
		return f.showErr
	}
	f.shown = append(f.shown, ind)
	return nil
}

// Level returns the buzzer level last written.
func (f *FakeBoard) Level() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

// Set records a buzzer write.
func (f *FakeBoard) Set(high bool) {
	f.mu.Lock()
	if high != f.level {
		f.toggles++
	}
	f.level = high
	f.sets++
	f.mu.Unlock()
}

// SetStatus records a power indicator write.
func (f *FakeBoard) SetStatus(on bool) {
	f.mu.Lock()
	f.status = append(f.status, on)
	f.mu.Unlock()
}

// Close marks the board as closed.
func (f *FakeBoard) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Sets returns the number of buzzer writes.
func (f *FakeBoard) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// Toggles returns the number of buzzer writes that changed the level.
func (f *FakeBoard) Toggles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toggles
}

// Status returns a copy of the power indicator writes.
func (f *FakeBoard) Status() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.status...)
}

// Shown returns a copy of the indicator refreshes.
func (f *FakeBoard) Shown() []logic.Indicators {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]logic.Indicators(nil), f.shown...)
}

// Closed reports whether Close was called.
func (f *FakeBoard) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
