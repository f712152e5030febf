package graph

import "math/rand"

// Noise is a white noise source in [-1, 1].
type Noise struct {
	node

	rng *rand.Rand
}

// NewNoise creates a noise source with a deterministic seed.
func NewNoise(ctx *Context, seed int64) *Noise {
	n := &Noise{rng: rand.New(rand.NewSource(seed))}
	n.init(ctx, n)

	return n
}

func (n *Noise) process(_, out []float64) {
	for i := range out {
		out[i] = n.rng.Float64()*2 - 1
	}
}
