package colony

// DefaultSeed seeds every ant's generator unless overridden.
const DefaultSeed int64 = 11235

// Source supplies uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = (1 << 48) - 1
)

// JavaRandom is the 48-bit linear congruential generator specified for
// java.util.Random. It reproduces that class's nextDouble sequence exactly
// for the same seed.
type JavaRandom struct {
	seed uint64
}

// NewJavaRandom returns a generator seeded like new java.util.Random(seed).
func NewJavaRandom(seed int64) *JavaRandom {
	return &JavaRandom{seed: (uint64(seed) ^ lcgMultiplier) & lcgMask}
}

func (r *JavaRandom) next(bits uint) uint64 {
	r.seed = (r.seed*lcgMultiplier + lcgAddend) & lcgMask
	return r.seed >> (48 - bits)
}

// Float64 returns the next value of nextDouble(): 53 random bits scaled
// into [0, 1).
func (r *JavaRandom) Float64() float64 {
	hi := r.next(26)
	lo := r.next(27)
	return float64(hi<<27+lo) * (1.0 / (1 << 53))
}
