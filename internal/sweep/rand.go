package sweep

// Source supplies the random bytes used by the Random and RandomWalk patterns.
type Source interface {
	Uint8() uint8
}

// DefaultSeed is the seed the device generator starts from.
const DefaultSeed = 12345

// LCG is the device's linear congruential generator. The state is kept modulo
// 2^15 and only the low byte is returned.
type LCG struct {
	seed uint16
}

// NewLCG returns a generator starting from seed.
func NewLCG(seed uint16) *LCG {
	return &LCG{seed: seed}
}

// Uint8 advances the generator and returns the low byte of the new state.
func (g *LCG) Uint8() uint8 {
	g.seed = uint16((uint32(g.seed)*1103515245 + 12345) % 32768)
	return uint8(g.seed)
}
