package math

import "golang.org/x/exp/rand"

// Random is a seeded pseudo random source. Builders that need randomness take
// one explicitly so identical seeds give identical output.
type Random struct {
	r *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{r: rand.New(rand.NewSource(seed))}
}

// Float returns a value in [0, 1).
func (r *Random) Float() float32 {
	return r.r.Float32()
}

// FloatInRange returns a value in [min, max).
func (r *Random) FloatInRange(min, max float32) float32 {
	return min + r.r.Float32()*(max-min)
}

// IntInRange returns a value in [min, max].
func (r *Random) IntInRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.r.Intn(max-min+1)
}
