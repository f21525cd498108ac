package logic

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// Inputs reads the raw levels of the button lines.
type Inputs interface {
	// ReadButton returns the electrical level of a button line (true = high).
	// Buttons are active-low with pull-ups, so a pressed button reads false.
	ReadButton(b Button) (bool, error)
}

// Display receives indicator refreshes after every state transition.
type Display interface {
	Show(ind Indicators) error
}

// Config wires a Controller to its collaborators.
type Config struct {
	Inputs Inputs
	// Speaker is the buzzer line; nil discards tone output.
	Speaker sweep.Speaker
	// Display is optional.
	Display Display

	// Active mirrors State.Active for the tick source. Optional.
	Active *atomic.Bool

	// Settle is the debounce settle interval; zero selects DefaultSettle.
	Settle time.Duration
	// Wait blocks for the settle interval; nil selects time.Sleep.
	Wait func(time.Duration)

	// Rand feeds the random patterns; nil selects the device LCG.
	Rand sweep.Source
	// Now timestamps events; nil selects time.Now.
	Now func() time.Time
}

// buttonLine adapts one button of Inputs to a LevelReader.
type buttonLine struct {
	inputs Inputs
	button Button
}

func (l buttonLine) Level() (bool, error) {
	return l.inputs.ReadButton(l.button)
}

// silentSpeaker keeps the level without driving anything.
type silentSpeaker struct{ level bool }

func (s *silentSpeaker) Level() bool   { return s.level }
func (s *silentSpeaker) Set(high bool) { s.level = high }

// Controller is the main loop: it owns the selection state, the sweep
// engine, the tone generator and one debouncer per button.
type Controller struct {
	state   State
	engine  *sweep.Engine
	tone    sweep.Tone
	buttons [ButtonCount]Debouncer
	lines   [ButtonCount]buttonLine

	speaker sweep.Speaker
	display Display
	active  *atomic.Bool
	now     func() time.Time

	counts     EventCounts
	iterations uint64
}

// NewController creates a controller in the power-on default state
// (inactive, Low range, first pattern, slowest speed).
func NewController(cfg Config) *Controller {
	if cfg.Settle == 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Active == nil {
		cfg.Active = new(atomic.Bool)
	}
	if cfg.Speaker == nil {
		cfg.Speaker = &silentSpeaker{}
	}

	c := &Controller{
		engine:  sweep.NewEngine(cfg.Rand),
		speaker: cfg.Speaker,
		display: cfg.Display,
		active:  cfg.Active,
		now:     cfg.Now,
	}
	c.active.Store(false)
	for b := Button(0); b < ButtonCount; b++ {
		c.buttons[b] = *NewDebouncer(cfg.Settle, cfg.Wait)
		c.lines[b] = buttonLine{inputs: cfg.Inputs, button: b}
	}
	c.engine.Reset(c.state.Range)
	return c
}

// Refresh pushes the current indicator state to the display.
func (c *Controller) Refresh() error {
	if c.display == nil {
		return nil
	}
	return c.display.Show(Refresh(c.state))
}

// Iterate runs one pass of the main loop: poll the buttons in order power,
// pattern, speed, range, apply confirmed presses, then (while active) run the
// tone generator followed by the sweep engine.
//
// A read error stops the button poll for this pass but the tone and sweep
// still run so the audio keeps its pitch.
func (c *Controller) Iterate() ([]Event, error) {
	var events []Event
	var errs []error

	for b := Button(0); b < ButtonCount; b++ {
		pressed, err := c.buttons[b].Pressed(c.lines[b])
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s button: %w", b, err))
			break
		}
		if !pressed {
			continue
		}
		events = append(events, c.apply(b))
		if err := c.Refresh(); err != nil {
			errs = append(errs, fmt.Errorf("refresh indicators: %w", err))
		}
	}

	if c.state.Active {
		c.tone.Tick(c.engine.Delay(), c.speaker)
		c.engine.Advance(c.state.Pattern, c.state.Range, c.state.Speed, c.speaker)
	}
	c.iterations++

	return events, errors.Join(errs...)
}

// Press applies a confirmed press of b without going through the debouncer.
func (c *Controller) Press(b Button) Event {
	return c.apply(b)
}

func (c *Controller) apply(b Button) Event {
	var t EventType

	switch b {
	case ButtonPower:
		c.state.Active = !c.state.Active
		c.active.Store(c.state.Active)
		if c.state.Active {
			t = EventPowerOn
		} else {
			t = EventPowerOff
			c.speaker.Set(false)
		}

	case ButtonPattern:
		c.state.Pattern = c.state.Pattern.Next()
		t = EventPattern

	case ButtonSpeed:
		c.state.Speed = (c.state.Speed + 1) % sweep.SpeedCount
		t = EventSpeed

	case ButtonRange:
		c.state.Range = c.state.Range.Toggle()
		c.engine.Reset(c.state.Range)
		t = EventRange
	}

	c.counts.add(t)
	return Event{
		Timestamp: c.now(),
		Type:      t,
		State:     c.state,
		Delay:     c.engine.Delay(),
	}
}

// State returns the current selection state.
func (c *Controller) State() State {
	return c.state
}

// Delay returns the current half-period delay.
func (c *Controller) Delay() uint16 {
	return c.engine.Delay()
}

// Counts returns a copy of the event counters.
func (c *Controller) Counts() EventCounts {
	return c.counts
}

// Iterations returns the number of completed loop passes.
func (c *Controller) Iterations() uint64 {
	return c.iterations
}
