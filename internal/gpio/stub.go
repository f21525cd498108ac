//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/buzzer-sweep/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealBoard is not available on non-Linux platforms.
type RealBoard struct{}

// NewRealBoard returns an error on non-Linux platforms.
func NewRealBoard(chipName string, pins Pins) (*RealBoard, error) {
	return nil, errUnsupported
}

// ReadButton is not implemented on non-Linux platforms.
func (b *RealBoard) ReadButton(btn logic.Button) (bool, error) {
	return false, errUnsupported
}

// Show is not implemented on non-Linux platforms.
func (b *RealBoard) Show(ind logic.Indicators) error {
	return errUnsupported
}

func (b *RealBoard) Level() bool       { return false }
func (b *RealBoard) Set(high bool)     {}
func (b *RealBoard) SetStatus(on bool) {}

// WriteErrors always reports zero on non-Linux platforms.
func (b *RealBoard) WriteErrors() uint64 { return 0 }

// Close is a no-op on non-Linux platforms.
func (b *RealBoard) Close() error {
	return nil
}
