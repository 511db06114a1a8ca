package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Hakuto4838/SortedMap.git/opstream"
	"github.com/Hakuto4838/SortedMap.git/skipmap"
	"github.com/Hakuto4838/SortedMap.git/skipmap/inspect"
	"github.com/olekukonko/tablewriter"
)

func main() {
	var file, dir, out string
	var n, k, runs, maxLevel int
	var a, b, deleteRatio float64
	var seed int64
	var probs string

	flag.StringVar(&file, "file", "", "existing op stream file (SMOPS001 format)")
	flag.StringVar(&dir, "dir", "", "directory of .bin stream files to run")
	flag.StringVar(&out, "out", "", "output path to write a generated stream file")
	flag.IntVar(&n, "n", 0, "number of keys for the Zipf generator")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&b, "b", 0.0, "Zipf parameter b")
	flag.IntVar(&k, "k", 0, "number of operations to generate")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.1, "delete ratio when generating")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for generators and structures")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat each configuration")
	flag.IntVar(&maxLevel, "maxLevel", skipmap.DefaultMaxLevel, "max level for the skip list")
	flag.StringVar(&probs, "p", "0.5", "comma list of promotion probabilities to compare")
	flag.Parse()

	var streamPaths []string
	switch {
	case dir != "":
		files, err := collectStreamFiles(dir)
		if err != nil {
			log.Fatalf("scan directory %s: %v", dir, err)
		}
		if len(files) == 0 {
			log.Fatalf("no .bin files found in directory: %s", dir)
		}
		streamPaths = files
		fmt.Printf("found %d stream files in %s\n", len(streamPaths), dir)
	case file != "":
		streamPaths = []string{file}
	default:
		if out == "" {
			log.Fatalf("either -file, -dir, or -out with generation params (-n,-a,-b,-k) must be provided")
		}
		if n <= 0 || k <= 0 {
			log.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
		}
		gen := opstream.NewZipfGenerator(n, a, b, seed)
		if err := opstream.WriteStreamFile(out, gen, k, deleteRatio, seed); err != nil {
			log.Fatalf("generate stream file: %v", err)
		}
		fmt.Printf("generated stream file: %s\n", out)
		streamPaths = []string{out}
	}

	pList := parseProbs(probs)
	fmt.Printf("probabilities to test: %v\n", pList)
	fmt.Println(strings.Repeat("=", 80))

	rows := make([][]string, 0, len(streamPaths)*len(pList))
	for _, path := range streamPaths {
		st, err := opstream.ReadStreamFile(path)
		if err != nil {
			log.Printf("ERROR reading stream file %s: %v", path, err)
			continue
		}
		fmt.Printf("stream: %s ops: %d entropy: %.6f\n",
			filepath.Base(path), len(st.Ops), opstream.EntropyOf(st.Dist))

		for _, p := range pList {
			stats := benchmarkConfig(st, maxLevel, p, runs, seed)
			steps := "N/A"
			if !math.IsNaN(stats.avgSteps) {
				steps = fmt.Sprintf("%.6f", stats.avgSteps)
			}
			rows = append(rows, []string{
				filepath.Base(path),
				fmt.Sprintf("%.2f", p),
				fmt.Sprintf("%d", maxLevel),
				fmt.Sprintf("%d", runs),
				fmt.Sprintf("%.3f", stats.avgMs),
				fmt.Sprintf("%.3f", stats.minMs),
				fmt.Sprintf("%.3f", stats.maxMs),
				formatThroughput(len(st.Ops), stats.avgMs),
				steps,
			})
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Stream", "P", "MaxLevel", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// collectStreamFiles 收集目錄下所有 .bin 檔案
func collectStreamFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func parseProbs(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		p, err := strconv.ParseFloat(t, 64)
		if err != nil || p <= 0 || p >= 1 {
			log.Fatalf("invalid probability %q in -p", t)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []float64{skipmap.DefaultProbability}
	}
	return out
}

// formatThroughput 極小的 stream 可能量不到時間，此時回報 N/A 而非 +Inf
func formatThroughput(ops int, avgMs float64) string {
	if avgMs <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", float64(ops)/(avgMs/1000.0))
}

type benchStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	avgSteps float64 // 由單次 run 的最終結構計算，結構相依
}

func benchmarkConfig(st *opstream.Stream, maxLevel int, p float64, runs int, seed int64) benchStats {
	durations := make([]float64, 0, runs)
	avgSteps := math.NaN()

	for i := 0; i < runs; i++ {
		sl, err := skipmap.NewWithConfig[int64, float64](maxLevel, p, seed)
		if err != nil {
			log.Fatalf("config maxLevel=%d p=%v: %v", maxLevel, p, err)
		}
		elapsed := replayOps(sl, st)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
		if math.IsNaN(avgSteps) {
			avgSteps = weightedSteps(sl, st.Dist)
		}
	}

	sort.Float64s(durations)
	sum := 0.0
	for _, d := range durations {
		sum += d
	}
	return benchStats{
		avgMs:    sum / float64(len(durations)),
		minMs:    durations[0],
		maxMs:    durations[len(durations)-1],
		avgSteps: avgSteps,
	}
}

func replayOps(sl *skipmap.SkipList[int64, float64], st *opstream.Stream) time.Duration {
	start := time.Now()
	for _, op := range st.Ops {
		switch op.Kind {
		case opstream.OpLookup:
			sl.Get(op.Key)
		case opstream.OpInsert:
			sl.Put(op.Key, st.Dist[op.Key])
		case opstream.OpDelete:
			sl.Delete(op.Key)
		}
	}
	return time.Since(start)
}

// weightedSteps 以分布權重計算平均查找步數，僅統計仍存在的 key
func weightedSteps(sl *skipmap.SkipList[int64, float64], dist map[int64]float64) float64 {
	var total, norm float64
	for key, w := range dist {
		if !sl.Contains(key) {
			continue
		}
		steps, _ := inspect.SearchSteps(sl, key)
		total += float64(steps) * w
		norm += w
	}
	if norm == 0 {
		return math.NaN()
	}
	return total / norm
}
