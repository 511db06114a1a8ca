package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Hakuto4838/SortedMap.git/opstream"
)

// parseScientific 解析科學記號字串（如 "1e5"）為整數。
// 超出 int 範圍的值直接回報錯誤，避免未定義的浮點轉換結果
func parseScientific(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("value %s out of int range", s)
	}
	return int(f), nil
}

// formatDecimal 將浮點數格式化為不含小數點的檔名片段（0.5 -> "0_5"）
func formatDecimal(f float64) string {
	val := int(f * 100)
	switch {
	case val%100 == 0:
		return fmt.Sprintf("%d", val/100)
	case val%10 == 0:
		return fmt.Sprintf("%d_%d", val/100, (val%100)/10)
	default:
		return fmt.Sprintf("%d_%02d", val/100, val%100)
	}
}

func main() {
	var nStr, kStr string
	var a, b, deleteRatio float64
	var seed int64
	var nums int
	var out, path string

	flag.StringVar(&nStr, "n", "0", "number of keys (scientific notation ok, e.g. 1e5)")
	flag.StringVar(&kStr, "k", "0", "number of operations (scientific notation ok, e.g. 1e6)")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a (0 = uniform distribution)")
	flag.Float64Var(&b, "b", 0.0, "Zipf parameter b")
	flag.Float64Var(&deleteRatio, "deleteRatio", 0.1, "probability of deleting a present key")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for generator and op mixing")
	flag.IntVar(&nums, "nums", 1, "number of files to generate")
	flag.StringVar(&out, "out", "", "output filename prefix (auto-generated when empty)")
	flag.StringVar(&path, "path", ".", "output directory")
	flag.Parse()

	n, err := parseScientific(nStr)
	if err != nil {
		log.Fatalf("parse -n: %v", err)
	}
	k, err := parseScientific(kStr)
	if err != nil {
		log.Fatalf("parse -k: %v", err)
	}
	if n <= 0 || k <= 0 {
		log.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
	}

	if out == "" {
		out = fmt.Sprintf("ops_n%d_k%d_a%s_b%s_dr%s",
			n, k, formatDecimal(a), formatDecimal(b), formatDecimal(deleteRatio))
	}
	if path != "." && path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatalf("create output directory: %v", err)
		}
	}

	fmt.Printf("n=%d k=%d a=%.2f b=%.2f deleteRatio=%.2f seed=%d files=%d\n",
		n, k, a, b, deleteRatio, seed, nums)

	for i := 0; i < nums; i++ {
		filename := fmt.Sprintf("%s.bin", out)
		if nums > 1 {
			filename = fmt.Sprintf("%s_%d.bin", out, i)
		}
		outfile := filepath.Join(path, filename)

		var gen opstream.Generator
		if a == 0 {
			gen = opstream.NewUniformGenerator(n, seed+int64(i))
		} else {
			gen = opstream.NewZipfGenerator(n, a, b, seed+int64(i))
		}

		fmt.Printf("writing %s (entropy %.6f)...\n", outfile, gen.Entropy())
		if err := opstream.WriteStreamFile(outfile, gen, k, deleteRatio, seed+int64(i)); err != nil {
			log.Fatalf("write stream file: %v", err)
		}
	}
	fmt.Println("done")
}
