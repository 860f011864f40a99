package domain

// RandomSource is the pseudo-random stream driving price walks and trading decisions.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64
	// IntN returns a uniform value in [0, n)
	IntN(n int) int
}
