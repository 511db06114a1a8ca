package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Hakuto4838/SortedMap.git/skipmap"
	"github.com/Hakuto4838/SortedMap.git/skipmap/inspect"
)

func main() {
	var maxLevel int
	var p float64
	var seed int64

	flag.IntVar(&maxLevel, "maxLevel", 4, "maximum level of the skip list")
	flag.Float64Var(&p, "p", 0.5, "level promotion probability")
	flag.Int64Var(&seed, "seed", 42, "seed for level sampling")
	flag.Parse()

	sl, err := skipmap.NewWithConfig[int, string](maxLevel, p, seed)
	if err != nil {
		log.Fatalf("create skip list: %v", err)
	}

	// 插入示範資料
	fmt.Println("=== insert ===")
	data := []skipmap.Entry[int, string]{
		{Key: 3, Value: "three"}, {Key: 6, Value: "six"}, {Key: 7, Value: "seven"}, {Key: 9, Value: "nine"},
		{Key: 12, Value: "twelve"}, {Key: 19, Value: "nineteen"}, {Key: 17, Value: "seventeen"},
		{Key: 26, Value: "twenty-six"}, {Key: 21, Value: "twenty-one"}, {Key: 25, Value: "twenty-five"},
	}
	for _, e := range data {
		fmt.Printf("put %d -> %s\n", e.Key, e.Value)
		sl.Put(e.Key, e.Value)
	}
	fmt.Printf("size: %d, top level: %d\n\n", sl.Len(), sl.TopLevel())

	inspect.Dump(os.Stdout, sl)
	fmt.Println()
	inspect.RenderTable(os.Stdout, sl)

	// 查詢
	fmt.Println("\n=== lookup ===")
	for _, key := range []int{7, 19, 100, 3} {
		if v, found := sl.Get(key); found {
			fmt.Printf("found: %d -> %s\n", key, v)
		} else {
			fmt.Printf("not found: %d\n", key)
		}
	}
	fmt.Printf("contains 12: %v\n", sl.Contains(12))
	fmt.Printf("contains 50: %v\n", sl.Contains(50))

	// 刪除
	fmt.Println("\n=== delete ===")
	for _, key := range []int{19, 7, 100} {
		fmt.Printf("delete %d: %v\n", key, sl.Delete(key))
	}
	fmt.Printf("size: %d\n\n", sl.Len())

	// 更新既有 key
	fmt.Println("=== update ===")
	sl.Put(12, "TWELVE")
	v, _ := sl.Get(12)
	fmt.Printf("value for 12: %s\n\n", v)

	inspect.Dump(os.Stdout, sl)

	// 排序輸出
	fmt.Println("\n=== sorted items ===")
	for _, e := range sl.Items() {
		fmt.Printf("  %d -> %s\n", e.Key, e.Value)
	}

	if err := inspect.CheckStruct(sl); err != nil {
		log.Fatalf("structure check failed: %v", err)
	}
	fmt.Println("\nstructure check: OK")
}
