package inspect

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/Hakuto4838/SortedMap.git/skipmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildList(t *testing.T, n int) *skipmap.SkipList[int, int] {
	t.Helper()
	sl := skipmap.New[int, int](42)
	for i := 0; i < n; i++ {
		sl.Put(i, i*10)
	}
	return sl
}

func TestDumpEmpty(t *testing.T) {
	sl := skipmap.New[int, int](42)
	var buf bytes.Buffer
	Dump(&buf, sl)
	assert.Contains(t, buf.String(), "[empty skip list]")
}

func TestDump(t *testing.T) {
	sl := buildList(t, 5)
	var buf bytes.Buffer
	Dump(&buf, sl)

	out := buf.String()
	assert.Contains(t, out, "level 0 : HEAD")
	// 第 0 層必須包含所有 key/value
	for _, want := range []string{"[0:0]", "[1:10]", "[2:20]", "[3:30]", "[4:40]"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, sl.TopLevel()+1, strings.Count(out, "HEAD"))
}

func TestRenderTable(t *testing.T) {
	sl := buildList(t, 8)
	var buf bytes.Buffer
	RenderTable(&buf, sl)

	out := buf.String()
	assert.Contains(t, out, "LEVEL")
	for i := 0; i < 8; i++ {
		assert.Contains(t, out, string(rune('0'+i)))
	}
}

func TestDumpCSV(t *testing.T) {
	sl := buildList(t, 10)
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	require.NoError(t, DumpCSV(writer, sl))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, sl.TopLevel()+1)

	// 最後一列是第 0 層，必須含所有 key
	base := records[len(records)-1]
	assert.Equal(t, "level 0", base[0])
	assert.Len(t, base, 11)
}

func TestCheckStruct(t *testing.T) {
	assert.NoError(t, CheckStruct(buildList(t, 0)))
	assert.NoError(t, CheckStruct(buildList(t, 1)))
	assert.NoError(t, CheckStruct(buildList(t, 500)))

	sl := buildList(t, 500)
	for i := 0; i < 500; i += 3 {
		sl.Delete(i)
	}
	assert.NoError(t, CheckStruct(sl))
}

// fakeNode 與 fakeList 用於手工組出受損結構，驗證 CheckStruct 能抓到違規
type fakeNode struct {
	key  int
	next []*fakeNode
}

func (n *fakeNode) GetKey() int   { return n.key }
func (n *fakeNode) GetValue() int { return 0 }
func (n *fakeNode) GetLevel() int { return len(n.next) - 1 }
func (n *fakeNode) GetNextAt(level int) skipmap.Nodelike[int, int] {
	if level < 0 || level >= len(n.next) || n.next[level] == nil {
		return nil
	}
	return n.next[level]
}

type fakeList struct {
	head *fakeNode
	top  int
}

func (l *fakeList) Contains(int) bool                   { return false }
func (l *fakeList) Get(int) (int, bool)                 { return 0, false }
func (l *fakeList) Put(int, int)                        {}
func (l *fakeList) Delete(int) bool                     { return false }
func (l *fakeList) Len() int                            { return 0 }
func (l *fakeList) Items() []skipmap.Entry[int, int]    { return nil }
func (l *fakeList) GetHead() skipmap.Nodelike[int, int] { return l.head }
func (l *fakeList) TopLevel() int                       { return l.top }

func newFakeNode(key, level int) *fakeNode {
	return &fakeNode{key: key, next: make([]*fakeNode, level+1)}
}

func TestCheckStructDetectsOutOfOrder(t *testing.T) {
	head := newFakeNode(0, 3)
	n2 := newFakeNode(2, 0)
	n1 := newFakeNode(1, 0)
	head.next[0] = n2
	n2.next[0] = n1

	err := CheckStruct[int, int](&fakeList{head: head, top: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not strictly increasing")
}

func TestCheckStructDetectsSubsetViolation(t *testing.T) {
	head := newFakeNode(0, 3)
	a := newFakeNode(1, 0)
	b := newFakeNode(5, 1)
	head.next[0] = a // 第 0 層只有 key 1
	head.next[1] = b // 第 1 層的 key 5 不在第 0 層

	err := CheckStruct[int, int](&fakeList{head: head, top: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from level")
}

func TestCheckStructDetectsLinkAboveTop(t *testing.T) {
	head := newFakeNode(0, 3)
	a := newFakeNode(1, 2)
	head.next[0] = a
	head.next[2] = a // top 之上仍有連結

	err := CheckStruct[int, int](&fakeList{head: head, top: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "above top level")
}

func TestSearchSteps(t *testing.T) {
	sl := buildList(t, 100)

	for _, key := range []int{0, 37, 99} {
		total, perLevel := SearchSteps(sl, key)
		assert.Greater(t, total, 0, "key %d", key)
		sum := 0
		for _, s := range perLevel {
			sum += s
		}
		assert.LessOrEqual(t, sum, total, "key %d", key)
	}

	// 不存在的 key 也要回傳走訪成本
	total, _ := SearchSteps(sl, 1000)
	assert.Greater(t, total, 0)
}

func TestCountLevels(t *testing.T) {
	sl := buildList(t, 200)
	counts := CountLevels(sl)

	require.Len(t, counts, sl.TopLevel()+1)
	assert.Equal(t, 200, counts[0])
	// 每層數量不得多於下層
	for i := 1; i < len(counts); i++ {
		assert.LessOrEqual(t, counts[i], counts[i-1])
	}
	// 最高層至少要有一個節點
	assert.Greater(t, counts[len(counts)-1], 0)
}
