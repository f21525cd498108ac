package logic

import "github.com/sweeney/buzzer-sweep/internal/sweep"

// Indicators is the logical state of the refreshable indicator lines.
// The power indicator is not included: it belongs to the tick source.
type Indicators struct {
	Pattern   [sweep.PatternCount]bool // one-hot on the selected pattern
	RangeHigh bool
}

// Levels holds the electrical levels for active-low indicator lines.
type Levels struct {
	Pattern [sweep.PatternCount]bool
	Range   bool
}

// Refresh maps the selection state to indicator states.
func Refresh(s State) Indicators {
	var ind Indicators
	if int(s.Pattern) < sweep.PatternCount {
		ind.Pattern[s.Pattern] = true
	}
	ind.RangeHigh = s.Range == sweep.High
	return ind
}

// Lit returns the index of the lit pattern indicator, or -1.
func (ind Indicators) Lit() int {
	for i, on := range ind.Pattern {
		if on {
			return i
		}
	}
	return -1
}

// Levels converts to electrical levels: a lit indicator is driven low.
func (ind Indicators) Levels() Levels {
	var l Levels
	for i, on := range ind.Pattern {
		l.Pattern[i] = !on
	}
	l.Range = !ind.RangeHigh
	return l
}
