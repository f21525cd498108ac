// Package sweep contains the pattern/sweep engine and the software tone generator.
// Like internal/logic it has no I/O: the audio line is reached only through the
// Speaker interface and randomness through Source.
package sweep

import (
	"fmt"
	"strconv"
	"strings"
)

// Range selects one of the two half-period delay bands.
type Range uint8

const (
	Low  Range = iota // 5-10 kHz band on the reference board
	High              // 18-27 kHz band on the reference board
)

func (r Range) String() string {
	if r == High {
		return "HIGH"
	}
	return "LOW"
}

// Toggle returns the other range.
func (r Range) Toggle() Range {
	if r == High {
		return Low
	}
	return High
}

// Limits holds the delay bounds for a range and the delay to reset to when
// the range is selected.
type Limits struct {
	Min     uint16
	Max     uint16
	Initial uint16
}

// Width is the number of distinct delay values in the band.
func (l Limits) Width() uint16 {
	return l.Max - l.Min + 1
}

// Ranges is indexed by Range.
var Ranges = [2]Limits{
	Low:  {Min: 25, Max: 50, Initial: 37},
	High: {Min: 9, Max: 18, Initial: 13},
}

// SpeedSteps is indexed by speed index; a larger step sweeps faster.
var SpeedSteps = [5]uint16{1, 2, 3, 5, 8}

// SpeedCount is the number of selectable speeds.
const SpeedCount = len(SpeedSteps)

// Step returns the step size for a speed index, wrapping out-of-range indices.
func Step(speed int) uint16 {
	if speed < 0 {
		speed = -speed
	}
	return SpeedSteps[speed%SpeedCount]
}

// Pattern identifies one of the sweep algorithms.
type Pattern uint8

const (
	UpSweep Pattern = iota
	DownSweep
	ZigZag
	Random
	Pulse
	Stepped
	Triangle
	Heartbeat
	Siren
	Chirps
	RandomWalk
)

// PatternCount is the number of patterns.
const PatternCount = 11

var patternNames = [PatternCount]string{
	"UP_SWEEP",
	"DOWN_SWEEP",
	"ZIG_ZAG",
	"RANDOM",
	"PULSE",
	"STEPPED",
	"TRIANGLE",
	"HEARTBEAT",
	"SIREN",
	"CHIRPS",
	"RANDOM_WALK",
}

func (p Pattern) String() string {
	if int(p) < PatternCount {
		return patternNames[p]
	}
	return "UNKNOWN"
}

// Next returns the following pattern, wrapping after RandomWalk.
func (p Pattern) Next() Pattern {
	return Pattern((int(p) + 1) % PatternCount)
}

// ParsePattern accepts a pattern name (case-insensitive, "-" or "_") or
// its index.
func ParsePattern(s string) (Pattern, error) {
	name := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < PatternCount {
		return Pattern(i), nil
	}
	return 0, fmt.Errorf("unknown pattern %q", s)
}

// ParseRange accepts "low" or "high".
func ParseRange(s string) (Range, error) {
	switch strings.ToUpper(s) {
	case "LOW":
		return Low, nil
	case "HIGH":
		return High, nil
	}
	return 0, fmt.Errorf("unknown range %q", s)
}

// Speaker is the audio output line.
type Speaker interface {
	// Level returns the level last written.
	Level() bool
	// Set drives the line.
	Set(high bool)
}
