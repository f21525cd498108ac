// Package analysis measures rendered buzzer output: pitch from zero
// crossings, duty from the DC offset, and single-bin tone levels.
package analysis

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	dsptime "github.com/cwbudde/algo-dsp/stats/time"
)

// Measurement summarises a stretch of bipolar square-wave samples.
type Measurement struct {
	Samples   int
	Seconds   float64
	Crossings int
	Pitch     float64 // Hz, from zero crossings
	Duty      float64 // fraction of samples at the high level
	RMS       float64
	Peak      float64
}

func toFloat64(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

// Measure computes time-domain statistics of samples rendered at sampleRate.
func Measure(samples []float32, sampleRate int) Measurement {
	x := toFloat64(samples)
	st := dsptime.Calculate(x)

	m := Measurement{
		Samples:   len(x),
		Crossings: st.ZeroCrossings,
		RMS:       st.RMS,
		Peak:      st.Peak,
	}
	if sampleRate > 0 {
		m.Seconds = float64(len(x)) / float64(sampleRate)
	}
	if m.Seconds > 0 {
		// Two crossings per cycle.
		m.Pitch = float64(m.Crossings) / (2 * m.Seconds)
	}
	if st.Peak > 0 {
		m.Duty = (st.DC/st.Peak + 1) / 2
	}
	return m
}

// Level returns the power in dB of the freq component of samples.
func Level(samples []float32, sampleRate int, freq float64) (float64, error) {
	g, err := spectrum.NewGoertzel(freq, float64(sampleRate))
	if err != nil {
		return 0, fmt.Errorf("tone level at %.0f Hz: %w", freq, err)
	}
	g.ProcessBlock(toFloat64(samples))
	return g.PowerDB(), nil
}
