package analysis

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/sim"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// Options controls how long and at what rate a pattern is rendered.
type Options struct {
	SampleRate int
	Seconds    float64
	Seed       uint16
}

func (o *Options) defaults() {
	if o.SampleRate <= 0 {
		o.SampleRate = config.SampleRate
	}
	if o.Seconds <= 0 {
		o.Seconds = config.AnalyzeSeconds
	}
}

// Report is the analysis of one pattern at one range and speed.
type Report struct {
	Pattern sweep.Pattern
	Range   sweep.Range
	Speed   int
	Measurement

	MinDelay, MaxDelay uint16
	InitialDB          float64 // level at the pitch of the range's initial delay
}

// MinPitch and MaxPitch bound the pitch implied by the observed delays.
func (r Report) MinPitch(sampleRate int) float64 { return sim.Pitch(sampleRate, r.MaxDelay) }
func (r Report) MaxPitch(sampleRate int) float64 { return sim.Pitch(sampleRate, r.MinDelay) }

// Analyze renders pattern p from power-on for opts.Seconds and measures it.
func Analyze(p sweep.Pattern, r sweep.Range, speed int, opts Options) (Report, error) {
	opts.defaults()

	m := sim.New(sim.Config{SampleRate: opts.SampleRate, Seed: opts.Seed})
	if err := m.Select(p, r, speed); err != nil {
		return Report{}, fmt.Errorf("select %s: %w", p, err)
	}
	m.ResetObserved()

	buf := make([]float32, int(opts.Seconds*float64(opts.SampleRate)))
	m.Render(buf)

	rep := Report{
		Pattern:     p,
		Range:       r,
		Speed:       speed,
		Measurement: Measure(buf, opts.SampleRate),
	}
	rep.MinDelay, rep.MaxDelay, _ = m.ObservedDelays()

	db, err := Level(buf, opts.SampleRate, sim.Pitch(opts.SampleRate, sweep.Ranges[r].Initial))
	if err != nil {
		return Report{}, err
	}
	rep.InitialDB = db
	return rep, nil
}

// AnalyzeAll analyzes every pattern at the given range and speed.
func AnalyzeAll(r sweep.Range, speed int, opts Options) ([]Report, error) {
	reports := make([]Report, 0, sweep.PatternCount)
	for p := sweep.Pattern(0); int(p) < sweep.PatternCount; p++ {
		rep, err := Analyze(p, r, speed, opts)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// FormatTable renders reports as a table.
func FormatTable(reports []Report, sampleRate int) string {
	if sampleRate <= 0 {
		sampleRate = config.SampleRate
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATTERN", "RANGE", "SPEED", "DELAY", "SPAN HZ", "PITCH HZ", "DUTY", "RMS", "INIT DB")

	for _, r := range reports {
		t.Row(
			r.Pattern.String(),
			r.Range.String(),
			fmt.Sprintf("%d", r.Speed),
			fmt.Sprintf("%d-%d", r.MinDelay, r.MaxDelay),
			fmt.Sprintf("%.0f-%.0f", r.MinPitch(sampleRate), r.MaxPitch(sampleRate)),
			fmt.Sprintf("%.1f", r.Pitch),
			fmt.Sprintf("%.2f", r.Duty),
			fmt.Sprintf("%.3f", r.RMS),
			fmt.Sprintf("%.1f", r.InitialDB),
		)
	}
	return t.String()
}
