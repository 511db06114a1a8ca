package opstream

import (
	"math"
	"math/rand"
)

// ZipfGenerator 產生符合 Zipf 分布的 key 序列。
// 權重為 1/(rank+b)^a 正規化後隨機洗牌，key 為 0..n-1。
type ZipfGenerator struct {
	n       int
	a, b    float64
	weights []float64
	cdf     []float64
	rng     *rand.Rand
}

func NewZipfGenerator(n int, a, b float64, seed int64) *ZipfGenerator {
	rng := rand.New(rand.NewSource(seed))

	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	for i := range weights {
		weights[i] /= sum
	}
	// 打散 rank 與 key 的對應，避免熱門 key 集中在小數值
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})

	cdf := make([]float64, n)
	cdf[0] = weights[0]
	for i := 1; i < n; i++ {
		cdf[i] = cdf[i-1] + weights[i]
	}

	return &ZipfGenerator{
		n:       n,
		a:       a,
		b:       b,
		weights: weights,
		cdf:     cdf,
		rng:     rng,
	}
}

// Next 以二分搜尋 CDF 產生下一個 key
func (z *ZipfGenerator) Next() int64 {
	r := z.rng.Float64()
	lo, hi := 0, z.n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r > z.cdf[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return int64(lo)
}

func (z *ZipfGenerator) KeyMap() map[int64]float64 {
	result := make(map[int64]float64, z.n)
	for i := 0; i < z.n; i++ {
		result[int64(i)] = z.weights[i]
	}
	return result
}

func (z *ZipfGenerator) Entropy() float64 {
	h := 0.0
	for _, p := range z.weights {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
