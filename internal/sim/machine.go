package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
	"github.com/sweeney/buzzer-sweep/internal/tick"
)

// Config sets up a Machine. Zero fields take the config package defaults.
type Config struct {
	SampleRate int
	Amplitude  float32
	Settle     time.Duration
	Seed       uint16 // zero selects sweep.DefaultSeed
}

// Snapshot is a point-in-time view of the machine for display.
type Snapshot struct {
	State      logic.State
	Delay      uint16
	Counts     logic.EventCounts
	Iterations uint64
	Ticks      uint64
	Level      bool
	Status     bool
	Indicators logic.Indicators
	Recent     []logic.Event
	Errors     int
}

// Machine couples a controller and tick source to a virtual board and
// renders the buzzer line one sample per loop iteration. A debounce settle
// stalls the loop, so it is rendered as the held level repeated for the
// settle time.
type Machine struct {
	mu     sync.Mutex
	board  *Board
	ctrl   *logic.Controller
	tick   *tick.Source
	active atomic.Bool

	amp            float32
	sampleRate     int
	samplesPerTick int
	tickPhase      int
	stall          int
	stallPerSettle int

	recent []logic.Event
	errs   int

	observed bool
	lo, hi   uint16
}

// New builds a machine in the power-on default state.
func New(cfg Config) *Machine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = config.SampleRate
	}
	if cfg.Amplitude == 0 {
		cfg.Amplitude = config.Amplitude
	}
	if cfg.Settle == 0 {
		cfg.Settle = config.Settle
	}
	if cfg.Seed == 0 {
		cfg.Seed = sweep.DefaultSeed
	}

	m := &Machine{
		board:          NewBoard(),
		amp:            cfg.Amplitude,
		sampleRate:     cfg.SampleRate,
		samplesPerTick: max(cfg.SampleRate/int(time.Second/config.Tick), 1),
		stallPerSettle: int(cfg.Settle.Seconds() * float64(cfg.SampleRate)),
	}
	m.tick = tick.New(&m.active, m.board)
	m.ctrl = logic.NewController(logic.Config{
		Inputs:  m.board,
		Speaker: m.board,
		Display: m.board,
		Active:  &m.active,
		Settle:  cfg.Settle,
		Wait:    func(time.Duration) { m.stall += m.stallPerSettle },
		Rand:    sweep.NewLCG(cfg.Seed),
	})
	if err := m.ctrl.Refresh(); err != nil {
		m.errs++
	}
	return m
}

// Pitch returns the tone frequency in Hz that a half-period delay produces at
// the given sample rate.
func Pitch(sampleRate int, delay uint16) float64 {
	if delay == 0 {
		return 0
	}
	return float64(sampleRate) / (2 * float64(delay))
}

// SampleRate returns the number of loop iterations rendered per second.
func (m *Machine) SampleRate() int {
	return m.sampleRate
}

// Board returns the virtual front panel.
func (m *Machine) Board() *Board {
	return m.board
}

// Press holds btn for the given time, then releases it.
func (m *Machine) Press(btn logic.Button, hold time.Duration) {
	m.board.Hold(btn, true)
	time.AfterFunc(hold, func() { m.board.Hold(btn, false) })
}

// Select drives the controller straight to the given selection and powers
// it on, bypassing the buttons.
func (m *Machine) Select(p sweep.Pattern, r sweep.Range, speed int) error {
	if int(p) >= sweep.PatternCount {
		return fmt.Errorf("pattern %d out of range", p)
	}
	if speed < 0 || speed >= sweep.SpeedCount {
		return fmt.Errorf("speed %d out of range", speed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ctrl.State().Active {
		m.record(m.ctrl.Press(logic.ButtonPower))
	}
	if m.ctrl.State().Range != r {
		m.record(m.ctrl.Press(logic.ButtonRange))
	}
	for m.ctrl.State().Pattern != p {
		m.record(m.ctrl.Press(logic.ButtonPattern))
	}
	for m.ctrl.State().Speed != speed {
		m.record(m.ctrl.Press(logic.ButtonSpeed))
	}
	return m.ctrl.Refresh()
}

// Render fills buf with one sample per loop iteration (or stalled sample).
func (m *Machine) Render(buf []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range buf {
		if m.stall > 0 {
			m.stall--
		} else {
			m.iterate()
		}

		m.tickPhase++
		if m.tickPhase >= m.samplesPerTick {
			m.tickPhase = 0
			m.tick.Tick()
		}

		buf[i] = m.sample()
	}
}

// Read renders float32 little-endian mono samples, the format an audio
// player pulls.
func (m *Machine) Read(p []byte) (int, error) {
	n := len(p) / 4
	buf := make([]float32, n)
	m.Render(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}

// Run renders in real time, one chunk per period, discarding the samples.
// It stands in for an audio device when there is none. Run returns when ctx
// is cancelled.
func (m *Machine) Run(ctx context.Context, period time.Duration) {
	buf := make([]float32, max(int(period.Seconds()*float64(m.sampleRate)), 1))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Render(buf)
		}
	}
}

func (m *Machine) iterate() {
	events, err := m.ctrl.Iterate()
	if err != nil {
		m.errs++
	}
	for _, e := range events {
		m.record(e)
	}

	if !m.active.Load() {
		return
	}
	d := m.ctrl.Delay()
	if !m.observed {
		m.lo, m.hi, m.observed = d, d, true
		return
	}
	m.lo = min(m.lo, d)
	m.hi = max(m.hi, d)
}

func (m *Machine) sample() float32 {
	if !m.active.Load() {
		return 0
	}
	if m.board.Level() {
		return m.amp
	}
	return -m.amp
}

func (m *Machine) record(e logic.Event) {
	m.recent = append(m.recent, e)
	if len(m.recent) > config.RecentEvents {
		m.recent = m.recent[len(m.recent)-config.RecentEvents:]
	}
}

// ObservedDelays returns the smallest and largest delay seen while active
// since the last ResetObserved. ok is false if nothing was observed.
func (m *Machine) ObservedDelays() (lo, hi uint16, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lo, m.hi, m.observed
}

// ResetObserved clears the observed delay range.
func (m *Machine) ResetObserved() {
	m.mu.Lock()
	m.observed = false
	m.mu.Unlock()
}

// Snapshot returns the current machine state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:      m.ctrl.State(),
		Delay:      m.ctrl.Delay(),
		Counts:     m.ctrl.Counts(),
		Iterations: m.ctrl.Iterations(),
		Ticks:      m.tick.Ticks(),
		Level:      m.board.Level(),
		Status:     m.board.Status(),
		Indicators: m.board.Indicators(),
		Recent:     append([]logic.Event(nil), m.recent...),
		Errors:     m.errs,
	}
}
