package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/Hakuto4838/SortedMap.git/anneal"
	"github.com/Hakuto4838/SortedMap.git/opstream"
	"github.com/Hakuto4838/SortedMap.git/skipmap"
	"github.com/Hakuto4838/SortedMap.git/skipmap/inspect"
	"github.com/olekukonko/tablewriter"
)

// evaluateCost 在給定 (maxLevel, p) 下建表並計算加權平均查找步數。
// 對 runs 個種子取平均，降低單次層級抽樣的雜訊。
func evaluateCost(maxLevel int, p float64, dist map[int64]float64, runs int, seed int64) float64 {
	var total float64
	for i := 0; i < runs; i++ {
		sl, err := skipmap.NewWithConfig[int64, float64](maxLevel, p, seed+int64(i))
		if err != nil {
			log.Fatalf("config maxLevel=%d p=%v: %v", maxLevel, p, err)
		}
		for key, w := range dist {
			sl.Put(key, w)
		}

		var steps, norm float64
		for key, w := range dist {
			s, _ := inspect.SearchSteps(sl, key)
			steps += float64(s) * w
			norm += w
		}
		total += steps / norm
	}
	return total / float64(runs)
}

type result struct {
	maxLevel int
	p        float64
	cost     float64
}

// pSolution 供模擬退火使用的解：固定 maxLevel，只搜尋 p
type pSolution struct {
	p        float64
	maxLevel int
	dist     map[int64]float64
	runs     int
	seed     int64
}

func (s *pSolution) Clone() anneal.Solution {
	cp := *s
	return &cp
}

func (s *pSolution) Cost() float64 {
	return evaluateCost(s.maxLevel, s.p, s.dist, s.runs, s.seed)
}

func (s *pSolution) Neighbor(rng *rand.Rand) anneal.Solution {
	cp := *s
	cp.p += (rng.Float64() - 0.5) * 0.1
	// p 必須留在開區間 (0, 1)
	cp.p = math.Max(0.01, math.Min(0.99, cp.p))
	return &cp
}

func main() {
	var file string
	var n int
	var a, b float64
	var seed int64
	var method string
	var pMin, pMax, pStep float64
	var lvlMin, lvlMax, lvlStep, runs int
	var outputCSV string

	flag.StringVar(&file, "file", "", "op stream file providing the key distribution")
	flag.IntVar(&n, "n", 1000, "number of keys when no -file is given (Zipf)")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&b, "b", 1.0, "Zipf parameter b")
	flag.Int64Var(&seed, "seed", 42, "base seed for structures")
	flag.StringVar(&method, "method", "grid", "search method: grid or sa")
	flag.Float64Var(&pMin, "pMin", 0.1, "grid: minimum probability")
	flag.Float64Var(&pMax, "pMax", 0.9, "grid: maximum probability")
	flag.Float64Var(&pStep, "pStep", 0.1, "grid: probability step")
	flag.IntVar(&lvlMin, "lvlMin", 8, "grid: minimum max level")
	flag.IntVar(&lvlMax, "lvlMax", 24, "grid: maximum max level")
	flag.IntVar(&lvlStep, "lvlStep", 4, "grid: max level step")
	flag.IntVar(&runs, "runs", 3, "seeds averaged per evaluation")
	flag.StringVar(&outputCSV, "csv", "", "optional CSV output path for grid results")
	flag.Parse()

	var dist map[int64]float64
	if file != "" {
		st, err := opstream.ReadStreamFile(file)
		if err != nil {
			log.Fatalf("read stream file: %v", err)
		}
		dist = st.Dist
	} else {
		dist = opstream.NewZipfGenerator(n, a, b, seed).KeyMap()
	}
	fmt.Printf("keys: %d entropy: %.6f method: %s\n", len(dist), opstream.EntropyOf(dist), method)

	switch method {
	case "grid":
		runGrid(dist, pMin, pMax, pStep, lvlMin, lvlMax, lvlStep, runs, seed, outputCSV)
	case "sa":
		runSA(dist, lvlMin, lvlMax, runs, seed)
	default:
		log.Fatalf("unknown -method: %s", method)
	}
}

func runGrid(dist map[int64]float64, pMin, pMax, pStep float64, lvlMin, lvlMax, lvlStep, runs int, seed int64, outputCSV string) {
	if lvlStep <= 0 {
		log.Fatalf("invalid -lvlStep: %d", lvlStep)
	}
	var results []result
	for lvl := lvlMin; lvl <= lvlMax; lvl += lvlStep {
		for p := pMin; p <= pMax+1e-9; p += pStep {
			cost := evaluateCost(lvl, p, dist, runs, seed)
			results = append(results, result{maxLevel: lvl, p: p, cost: cost})
			fmt.Printf("maxLevel=%2d p=%.2f avgSteps=%.6f\n", lvl, p, cost)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].cost < results[j].cost })

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		if i >= 10 {
			break
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.maxLevel),
			fmt.Sprintf("%.2f", r.p),
			fmt.Sprintf("%.6f", r.cost),
		})
	}
	fmt.Println("\ntop configurations:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"MaxLevel", "P", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.AppendBulk(rows)
	table.Render()

	if outputCSV != "" {
		if err := writeResultsCSV(outputCSV, results); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		fmt.Printf("results written to %s\n", outputCSV)
	}
}

func writeResultsCSV(path string, results []result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"maxLevel", "p", "avgSteps"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			fmt.Sprintf("%d", r.maxLevel),
			fmt.Sprintf("%.4f", r.p),
			fmt.Sprintf("%.6f", r.cost),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func runSA(dist map[int64]float64, lvlMin, lvlMax, runs int, seed int64) {
	cfg := anneal.DefaultConfig()
	cfg.Seed = seed
	cfg.MaxIterations = 300
	cfg.Iterations = 20
	cfg.InitialTemp = 1.0
	cfg.FinalTemp = 0.01
	cfg.ProgressInterval = 50
	cfg.Progress = func(iter, maxIter int, temp, best, cur float64) {
		fmt.Printf("iter %d/%d temp=%.4f best=%.6f current=%.6f\n", iter, maxIter, temp, best, cur)
	}

	maxLevel := (lvlMin + lvlMax) / 2
	initial := &pSolution{
		p:        skipmap.DefaultProbability,
		maxLevel: maxLevel,
		dist:     dist,
		runs:     runs,
		seed:     seed,
	}

	best, cost := anneal.New(cfg).Run(initial)
	sol := best.(*pSolution)
	fmt.Printf("\nbest: maxLevel=%d p=%.4f avgSteps=%.6f\n", sol.maxLevel, sol.p, cost)
}
