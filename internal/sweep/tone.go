package sweep

// Tone is the software square-wave generator. Each Tick counts one loop
// iteration; the speaker is inverted whenever the count reaches the delay, so
// the half-period of the output equals the delay in iterations.
type Tone struct {
	count uint16
}

// Tick advances the counter and toggles spk on reaching delay.
func (t *Tone) Tick(delay uint16, spk Speaker) {
	t.count++
	if t.count >= delay {
		t.count = 0
		spk.Set(!spk.Level())
	}
}

// Reset clears the counter.
func (t *Tone) Reset() {
	t.count = 0
}
