package opstream

import (
	"math"
	"math/rand"
)

// UniformGenerator 產生均勻分布的 key 序列，key 為 0..n-1
type UniformGenerator struct {
	n   int
	rng *rand.Rand
}

func NewUniformGenerator(n int, seed int64) *UniformGenerator {
	return &UniformGenerator{
		n:   n,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (u *UniformGenerator) Next() int64 {
	return u.rng.Int63n(int64(u.n))
}

func (u *UniformGenerator) KeyMap() map[int64]float64 {
	p := 1.0 / float64(u.n)
	result := make(map[int64]float64, u.n)
	for i := 0; i < u.n; i++ {
		result[int64(i)] = p
	}
	return result
}

func (u *UniformGenerator) Entropy() float64 {
	return math.Log2(float64(u.n))
}
