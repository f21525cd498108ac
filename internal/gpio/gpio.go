// Package gpio provides the board I/O with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
	"github.com/sweeney/buzzer-sweep/internal/tick"
)

// Board is everything the control loop and tick source drive.
type Board interface {
	logic.Inputs
	logic.Display
	sweep.Speaker
	tick.Indicator

	// Close releases GPIO resources.
	Close() error
}

// Pins holds BCM line offsets. A negative offset disables the line.
type Pins struct {
	Power   int
	Pattern int
	Speed   int
	Range   int

	Buzzer     int
	BuzzerComp int // complement of Buzzer

	Status   int // power indicator, blinked by the tick source
	RangeLED int
	Patterns [sweep.PatternCount]int
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinPower   = 17
	DefaultPinPattern = 27
	DefaultPinSpeed   = 22
	DefaultPinRange   = 23

	DefaultPinBuzzer     = 18
	DefaultPinBuzzerComp = 19

	DefaultPinStatus   = 24
	DefaultPinRangeLED = 25
)

// DefaultPatternPins are the one-hot pattern indicator lines, in pattern order.
var DefaultPatternPins = [sweep.PatternCount]int{5, 6, 12, 13, 16, 20, 21, 26, 4, 7, 8}

// DefaultPins returns the reference wiring.
func DefaultPins() Pins {
	return Pins{
		Power:      DefaultPinPower,
		Pattern:    DefaultPinPattern,
		Speed:      DefaultPinSpeed,
		Range:      DefaultPinRange,
		Buzzer:     DefaultPinBuzzer,
		BuzzerComp: DefaultPinBuzzerComp,
		Status:     DefaultPinStatus,
		RangeLED:   DefaultPinRangeLED,
		Patterns:   DefaultPatternPins,
	}
}

// Buttons returns the button offsets indexed by logic.Button.
func (p Pins) Buttons() [logic.ButtonCount]int {
	return [logic.ButtonCount]int{
		logic.ButtonPower:   p.Power,
		logic.ButtonPattern: p.Pattern,
		logic.ButtonSpeed:   p.Speed,
		logic.ButtonRange:   p.Range,
	}
}

// IndicatorLines returns the pattern lines followed by the range line, the
// order used for bank writes.
func (p Pins) IndicatorLines() []int {
	lines := make([]int, 0, sweep.PatternCount+1)
	lines = append(lines, p.Patterns[:]...)
	return append(lines, p.RangeLED)
}

// bankValues converts indicator levels to line values in IndicatorLines order.
func bankValues(l logic.Levels) []int {
	vals := make([]int, 0, sweep.PatternCount+1)
	for _, high := range l.Pattern {
		vals = append(vals, boolToInt(high))
	}
	return append(vals, boolToInt(l.Range))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
