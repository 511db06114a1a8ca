// Package inspect 提供跳躍表結構的走訪、渲染與檢查工具。
// 僅透過 Nodelike 唯讀視圖存取結構，不做任何修改。
package inspect

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Hakuto4838/SortedMap.git/skipmap"
	"github.com/olekukonko/tablewriter"
)

// Dump 逐層印出跳躍表結構，由最高層到第 0 層
func Dump[K cmp.Ordered, V any](w io.Writer, sl skipmap.Inspectable[K, V]) {
	head := sl.GetHead()
	if head == nil || head.GetNextAt(0) == nil {
		fmt.Fprintln(w, "[empty skip list]")
		return
	}

	for h := sl.TopLevel(); h >= 0; h-- {
		fmt.Fprintf(w, "level %d : HEAD", h)
		for nd := head.GetNextAt(h); nd != nil; nd = nd.GetNextAt(h) {
			fmt.Fprintf(w, " -> [%v:%v]", nd.GetKey(), nd.GetValue())
		}
		fmt.Fprintln(w, " -> nil")
	}
}

// levelGrid 蒐集每層的格子內容：欄位對齊第 0 層的 key 順序，
// 節點未達該層時留空
func levelGrid[K cmp.Ordered, V any](sl skipmap.Inspectable[K, V]) (header []string, rows [][]string) {
	head := sl.GetHead()

	var base []skipmap.Nodelike[K, V]
	for nd := head.GetNextAt(0); nd != nil; nd = nd.GetNextAt(0) {
		base = append(base, nd)
	}

	header = make([]string, 0, len(base)+1)
	header = append(header, "Level")
	for _, nd := range base {
		header = append(header, fmt.Sprintf("%v", nd.GetKey()))
	}

	for h := sl.TopLevel(); h >= 0; h-- {
		row := make([]string, 0, len(base)+1)
		row = append(row, fmt.Sprintf("%d", h))
		for _, nd := range base {
			if nd.GetLevel() >= h {
				row = append(row, fmt.Sprintf("%v", nd.GetKey()))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}

// RenderTable 以表格渲染層級結構，欄為第 0 層的 key，列為各層級
func RenderTable[K cmp.Ordered, V any](w io.Writer, sl skipmap.Inspectable[K, V]) {
	head := sl.GetHead()
	if head == nil || head.GetNextAt(0) == nil {
		fmt.Fprintln(w, "[empty skip list]")
		return
	}

	header, rows := levelGrid(sl)

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// DumpCSV 將層級結構輸出為 CSV，一列一層
func DumpCSV[K cmp.Ordered, V any](writer *csv.Writer, sl skipmap.Inspectable[K, V]) error {
	_, rows := levelGrid(sl)
	for i := range rows {
		rows[i][0] = "level " + rows[i][0]
		if err := writer.Write(rows[i]); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CheckStruct 檢查結構不變量：
//  1. 每層 key 嚴格遞增
//  2. 第 i 層可達的 key 是第 i-1 層的子集
//  3. TopLevel 之上 header 不得有後繼
//
// 回傳第一個發現的違規，結構正確時回傳 nil
func CheckStruct[K cmp.Ordered, V any](sl skipmap.Inspectable[K, V]) error {
	head := sl.GetHead()
	if head == nil {
		return fmt.Errorf("inspect: nil head")
	}
	top := sl.TopLevel()

	for h := top; h >= 0; h-- {
		prev := head.GetNextAt(h)
		if prev == nil {
			continue
		}
		for nd := prev.GetNextAt(h); nd != nil; nd = nd.GetNextAt(h) {
			if nd.GetKey() <= prev.GetKey() {
				return fmt.Errorf("inspect: level %d not strictly increasing at key %v", h, nd.GetKey())
			}
			prev = nd
		}
	}

	for h := 1; h <= top; h++ {
		lower := make(map[K]bool)
		for nd := head.GetNextAt(h - 1); nd != nil; nd = nd.GetNextAt(h - 1) {
			lower[nd.GetKey()] = true
		}
		for nd := head.GetNextAt(h); nd != nil; nd = nd.GetNextAt(h) {
			if !lower[nd.GetKey()] {
				return fmt.Errorf("inspect: key %v at level %d missing from level %d", nd.GetKey(), h, h-1)
			}
		}
	}

	for h := top + 1; h <= head.GetLevel(); h++ {
		if head.GetNextAt(h) != nil {
			return fmt.Errorf("inspect: header linked at level %d above top level %d", h, top)
		}
	}
	return nil
}

// SearchSteps 計算查找指定 key 的總步數與各層步數（水平移動與向下各算一步）
func SearchSteps[K cmp.Ordered, V any](sl skipmap.Inspectable[K, V], key K) (total int, perLevel []int) {
	head := sl.GetHead()
	if head == nil {
		return 0, nil
	}

	top := sl.TopLevel()
	perLevel = make([]int, top+1)
	cur := head

	for h := top; h >= 0; h-- {
		steps := 0
		for {
			nd := cur.GetNextAt(h)
			if nd == nil || nd.GetKey() >= key {
				break
			}
			cur = nd
			steps++
		}

		if nd := cur.GetNextAt(h); nd != nil && nd.GetKey() == key {
			steps++ // 最後一步踏上目標
			perLevel[h] = steps
			total += steps
			return total, perLevel
		}

		perLevel[h] = steps
		total += steps + 1 // 向下移動也算一步
	}
	return total, perLevel
}

// CountLevels 統計每層節點數量，索引為層級
func CountLevels[K cmp.Ordered, V any](sl skipmap.Inspectable[K, V]) []int {
	counts := make([]int, sl.TopLevel()+1)
	head := sl.GetHead()
	for nd := head.GetNextAt(0); nd != nil; nd = nd.GetNextAt(0) {
		lv := nd.GetLevel()
		for h := 0; h <= lv && h < len(counts); h++ {
			counts[h]++
		}
	}
	return counts
}
