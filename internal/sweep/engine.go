package sweep

// Counter thresholds for the counted patterns.
const (
	pulsePeriod     = 500
	pulseOnCounts   = 50
	stepEvery       = 100
	heartbeatPeriod = 600
	sirenEvery      = 100
	chirpHold       = 300
	chirpFactor     = 3
	walkEvery       = 20
	randomThreshold = 20 // out of 256
)

// Engine holds the live half-period delay and the private sub-state of every
// pattern. Sub-state is not reset when the selected pattern changes, so
// returning to a pattern resumes where it left off.
type Engine struct {
	delay uint16
	rand  Source

	rising     bool // zig-zag direction
	pulseCount int
	stepCount  int
	triSign    int
	hbCount    int
	sirenCount int
	chirpHold  bool
	chirpCount int
	walkCount  int
}

// NewEngine returns an engine with the Low range's initial delay. A nil src
// selects the device LCG with DefaultSeed.
func NewEngine(src Source) *Engine {
	if src == nil {
		src = NewLCG(DefaultSeed)
	}
	return &Engine{
		delay:   Ranges[Low].Initial,
		rand:    src,
		triSign: 1,
	}
}

// Delay returns the current half-period delay in loop iterations.
func (e *Engine) Delay() uint16 {
	return e.delay
}

// SetDelay overrides the current delay.
func (e *Engine) SetDelay(d uint16) {
	e.delay = d
}

// Reset sets the delay to the initial value for r.
func (e *Engine) Reset(r Range) {
	e.delay = Ranges[r].Initial
}

// Advance runs one step of pattern p for range r at the given speed index.
// Only the Pulse pattern writes spk; every other pattern acts on the delay.
func (e *Engine) Advance(p Pattern, r Range, speed int, spk Speaker) {
	lim := Ranges[r]
	lo, hi := int(lim.Min), int(lim.Max)
	step := int(Step(speed))
	d := int(e.delay)

	switch p {
	case UpSweep:
		if d <= lo || d > hi || d-step < lo {
			d = hi
		} else {
			d -= step
		}

	case DownSweep:
		if d >= hi || d < lo || d+step > hi {
			d = lo
		} else {
			d += step
		}

	case ZigZag:
		if e.rising {
			if d < hi {
				d = min(d+step, hi)
			} else {
				e.rising = false
			}
		} else {
			if d > lo {
				d = max(d-step, lo)
			} else {
				e.rising = true
			}
		}

	case Random:
		if e.rand.Uint8() < randomThreshold {
			d = lo + int(e.rand.Uint8())%int(lim.Width())
		}

	case Pulse:
		e.pulseCount++
		if e.pulseCount >= pulsePeriod {
			e.pulseCount = 0
		}
		if spk != nil {
			spk.Set(e.pulseCount < pulseOnCounts)
		}

	case Stepped:
		e.stepCount++
		if e.stepCount >= stepEvery {
			e.stepCount = 0
			w := int(lim.Width())
			d = lo + ((d+step-lo)%w+w)%w
		}

	case Triangle:
		d += e.triSign * step
		if d <= lo {
			e.triSign = 1
		} else if d >= hi {
			e.triSign = -1
		}

	case Heartbeat:
		e.hbCount++
		if e.hbCount >= heartbeatPeriod {
			e.hbCount = 0
		}
		switch {
		case e.hbCount < 100:
			d = lo + 2
		case e.hbCount < 150:
			d = hi
		case e.hbCount < 250:
			d = lo + 1
		default:
			d = hi
		}

	case Siren:
		e.sirenCount++
		if e.sirenCount >= sirenEvery {
			e.sirenCount = 0
			if d == lo {
				d = hi
			} else {
				d = lo
			}
		}

	case Chirps:
		if !e.chirpHold {
			if d > lo {
				d = max(d-chirpFactor*step, lo)
			} else {
				e.chirpHold = true
			}
		} else {
			e.chirpCount++
			if e.chirpCount > chirpHold {
				e.chirpCount = 0
				e.chirpHold = false
				d = hi
			}
		}

	case RandomWalk:
		e.walkCount++
		if e.walkCount >= walkEvery {
			e.walkCount = 0
			d += int(e.rand.Uint8()%5) - 2
			d = min(max(d, lo), hi)
		}
	}

	e.delay = uint16(max(d, 0))
}
