// Package sim runs the controller against a virtual board and renders the
// buzzer line as audio. Each audio sample is one control-loop iteration, so a
// half-period delay of d produces a tone of sampleRate/(2d) Hz.
package sim

import (
	"sync"

	"github.com/sweeney/buzzer-sweep/internal/logic"
)

// Board is the virtual front panel: four buttons, the buzzer line, the status
// indicator and the indicator bank. Unlike gpio.FakeBoard it keeps only the
// current levels, so it can run indefinitely.
type Board struct {
	mu     sync.Mutex
	held   [logic.ButtonCount]bool
	level  bool
	status bool
	ind    logic.Indicators
}

// NewBoard returns a board with every button released.
func NewBoard() *Board {
	return &Board{ind: logic.Refresh(logic.State{})}
}

// Hold presses or releases a button.
func (b *Board) Hold(btn logic.Button, pressed bool) {
	b.mu.Lock()
	b.held[btn] = pressed
	b.mu.Unlock()
}

// Held reports whether btn is currently pressed.
func (b *Board) Held(btn logic.Button) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held[btn]
}

// ReadButton returns the line level: low while held.
func (b *Board) ReadButton(btn logic.Button) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.held[btn], nil
}

// Show latches the indicator bank.
func (b *Board) Show(ind logic.Indicators) error {
	b.mu.Lock()
	b.ind = ind
	b.mu.Unlock()
	return nil
}

// Indicators returns the latched indicator bank.
func (b *Board) Indicators() logic.Indicators {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ind
}

func (b *Board) Level() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

func (b *Board) Set(high bool) {
	b.mu.Lock()
	b.level = high
	b.mu.Unlock()
}

func (b *Board) SetStatus(on bool) {
	b.mu.Lock()
	b.status = on
	b.mu.Unlock()
}

// Status returns the power indicator state.
func (b *Board) Status() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Close is a no-op.
func (b *Board) Close() error {
	return nil
}
