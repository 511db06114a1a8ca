// Package anneal 提供通用的模擬退火搜尋框架，供參數調校工具使用。
package anneal

import (
	"math"
	"math/rand"
	"time"
)

// Solution 表示一個解
type Solution interface {
	// Clone 建立當前解的深拷貝
	Clone() Solution
	// Cost 回傳當前解的成本，越小越好
	Cost() float64
	// Neighbor 以給定的隨機來源產生鄰居解
	Neighbor(rng *rand.Rand) Solution
}

// ProgressFunc 進度回報回調
type ProgressFunc func(iteration, maxIterations int, temperature, bestCost, currentCost float64)

// Config 模擬退火配置
type Config struct {
	InitialTemp      float64 // 初始溫度
	FinalTemp        float64 // 最終溫度
	CoolingRate      float64 // 每輪冷卻比率
	Iterations       int     // 每個溫度的迭代次數
	MaxIterations    int     // 最大總迭代次數
	Seed             int64   // 隨機種子
	Progress         ProgressFunc
	ProgressInterval int // 每 N 次迭代回報一次，0 表示不回報
}

// DefaultConfig 回傳預設配置
func DefaultConfig() *Config {
	return &Config{
		InitialTemp:   1000.0,
		FinalTemp:     0.1,
		CoolingRate:   0.95,
		Iterations:    100,
		MaxIterations: 10000,
		Seed:          time.Now().UnixNano(),
	}
}

// Annealer 模擬退火執行器
type Annealer struct {
	config     *Config
	rng        *rand.Rand
	bestSol    Solution
	bestCost   float64
	iterations int
}

// New 建立退火執行器，config 為 nil 時使用預設配置
func New(config *Config) *Annealer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Annealer{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Run 由初始解開始退火，回傳最佳解與其成本
func (a *Annealer) Run(initial Solution) (Solution, float64) {
	current := initial.Clone()
	currentCost := current.Cost()

	a.bestSol = current.Clone()
	a.bestCost = currentCost
	a.iterations = 0

	temperature := a.config.InitialTemp

	for temperature > a.config.FinalTemp && a.iterations < a.config.MaxIterations {
		for i := 0; i < a.config.Iterations; i++ {
			neighbor := current.Neighbor(a.rng)
			neighborCost := neighbor.Cost()
			delta := neighborCost - currentCost

			if a.accept(delta, temperature) {
				current = neighbor
				currentCost = neighborCost
				if currentCost < a.bestCost {
					a.bestSol = current.Clone()
					a.bestCost = currentCost
				}
			}

			a.iterations++

			if a.config.Progress != nil && a.config.ProgressInterval > 0 &&
				a.iterations%a.config.ProgressInterval == 0 {
				a.config.Progress(a.iterations, a.config.MaxIterations, temperature, a.bestCost, currentCost)
			}

			if a.iterations >= a.config.MaxIterations {
				break
			}
		}
		temperature *= a.config.CoolingRate
	}

	return a.bestSol, a.bestCost
}

// accept Metropolis 準則：更佳解必收，較差解依溫度機率接受
func (a *Annealer) accept(delta, temperature float64) bool {
	if delta < 0 {
		return true
	}
	return a.rng.Float64() < math.Exp(-delta/temperature)
}

// BestSolution 回傳目前最佳解
func (a *Annealer) BestSolution() Solution { return a.bestSol }

// BestCost 回傳目前最佳成本
func (a *Annealer) BestCost() float64 { return a.bestCost }

// Iterations 回傳已執行的迭代次數
func (a *Annealer) Iterations() int { return a.iterations }
