package skipmap

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaces(t *testing.T) {
	var _ Map[int, string] = (*SkipList[int, string])(nil)
	var _ Inspectable[int, string] = (*SkipList[int, string])(nil)
	var _ Nodelike[int, string] = (*node[int, string])(nil)
}

func TestNewWithConfigValidation(t *testing.T) {
	_, err := NewWithConfig[int, string](0, 0.5, 42)
	assert.ErrorIs(t, err, ErrInvalidMaxLevel)

	_, err = NewWithConfig[int, string](-3, 0.5, 42)
	assert.ErrorIs(t, err, ErrInvalidMaxLevel)

	_, err = NewWithConfig[int, string](16, 0.0, 42)
	assert.ErrorIs(t, err, ErrInvalidProbability)

	_, err = NewWithConfig[int, string](16, 1.0, 42)
	assert.ErrorIs(t, err, ErrInvalidProbability)

	_, err = NewWithConfig[int, string](16, -0.1, 42)
	assert.ErrorIs(t, err, ErrInvalidProbability)

	sl, err := NewWithConfig[int, string](16, 0.5, 42)
	require.NoError(t, err)
	require.NotNil(t, sl)
}

func TestEmpty(t *testing.T) {
	sl := New[int, string](42)

	assert.Equal(t, 0, sl.Len())
	assert.Empty(t, sl.Items())
	assert.False(t, sl.Contains(1))
	assert.False(t, sl.Delete(1))

	_, found := sl.Get(1)
	assert.False(t, found)
}

func TestPutAndGet(t *testing.T) {
	sl := New[int, string](42)

	// 插入 5,2,8,1,9,3 後必須得到排序後的快照
	for _, k := range []int{5, 2, 8, 1, 9, 3} {
		sl.Put(k, "v"+strconv.Itoa(k))
	}

	want := []Entry[int, string]{
		{1, "v1"}, {2, "v2"}, {3, "v3"}, {5, "v5"}, {8, "v8"}, {9, "v9"},
	}
	assert.Equal(t, want, sl.Items())

	v, found := sl.Get(8)
	require.True(t, found)
	assert.Equal(t, "v8", v)

	_, found = sl.Get(10)
	assert.False(t, found)

	require.True(t, sl.Delete(5))
	_, found = sl.Get(5)
	assert.False(t, found)
	assert.Equal(t, 5, sl.Len())
}

func TestReplaceExistingKey(t *testing.T) {
	sl := New[int, string](42)
	sl.Put(5, "five")
	sl.Put(7, "seven")

	v, found := sl.Get(5)
	require.True(t, found)
	assert.Equal(t, "five", v)

	// 覆寫不改變 size 與排序位置
	sl.Put(5, "FIVE")
	assert.Equal(t, 2, sl.Len())

	v, found = sl.Get(5)
	require.True(t, found)
	assert.Equal(t, "FIVE", v)

	keys := make([]int, 0, 2)
	for _, it := range sl.Items() {
		keys = append(keys, it.Key)
	}
	assert.Equal(t, []int{5, 7}, keys)
}

func TestDeleteAbsentKey(t *testing.T) {
	sl := New[int, string](42)
	sl.Put(5, "five")

	before := sl.Items()
	assert.False(t, sl.Delete(10))
	assert.Equal(t, 1, sl.Len())
	assert.Equal(t, before, sl.Items())
}

func TestDeleteSweep(t *testing.T) {
	sl := New[int, int](42)
	for i := 0; i < 10; i++ {
		sl.Put(i, i*10)
	}
	require.Equal(t, 10, sl.Len())

	// 刪除偶數 key
	for i := 0; i < 10; i += 2 {
		require.True(t, sl.Delete(i))
	}
	assert.Equal(t, 5, sl.Len())

	for i := 1; i < 10; i += 2 {
		v, found := sl.Get(i)
		require.True(t, found, "key %d should survive", i)
		assert.Equal(t, i*10, v)
	}
	for i := 0; i < 10; i += 2 {
		assert.False(t, sl.Contains(i), "key %d should be gone", i)
	}
}

func TestSortedInvariantRandomOrder(t *testing.T) {
	const n = 100
	sl := New[int, int](7)

	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(n, func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	for _, k := range keys {
		sl.Put(k, k)
	}

	require.Equal(t, n, sl.Len())
	for i := 0; i < n; i++ {
		v, found := sl.Get(i)
		require.True(t, found, "key %d not found", i)
		assert.Equal(t, i, v)
	}

	items := sl.Items()
	require.Len(t, items, n)
	for i, it := range items {
		assert.Equal(t, i, it.Key)
	}
}

func TestStringKeys(t *testing.T) {
	sl := New[string, int](42)
	words := []string{"apple", "banana", "cherry", "date", "elderberry"}
	for _, w := range words {
		sl.Put(w, len(w))
	}

	assert.Equal(t, 5, sl.Len())

	v, found := sl.Get("banana")
	require.True(t, found)
	assert.Equal(t, 6, v)

	got := make([]string, 0, len(words))
	for _, it := range sl.Items() {
		got = append(got, it.Key)
	}
	assert.True(t, sort.StringsAreSorted(got))
}

func TestLevelSubsetInvariant(t *testing.T) {
	sl := New[int, int](42)
	for i := 0; i < 200; i++ {
		sl.Put(i, i)
	}

	// 第 i 層的 key 集合必須是第 i-1 層的子集
	for lvl := 1; lvl <= sl.TopLevel(); lvl++ {
		lower := make(map[int]bool)
		for _, k := range sl.LevelKeys(lvl - 1) {
			lower[k] = true
		}
		for _, k := range sl.LevelKeys(lvl) {
			assert.True(t, lower[k], "level %d key %d missing from level %d", lvl, k, lvl-1)
		}
	}

	// 第 0 層包含所有 key
	assert.Len(t, sl.LevelKeys(0), 200)
}

func TestLevelKeysOutOfRange(t *testing.T) {
	sl := New[int, int](42)
	sl.Put(1, 1)
	assert.Nil(t, sl.LevelKeys(-1))
	assert.Nil(t, sl.LevelKeys(sl.MaxLevel()+1))
}

func TestTopLevelShrinksAfterDelete(t *testing.T) {
	sl := New[int, int](42)
	for i := 0; i < 64; i++ {
		sl.Put(i, i)
	}
	top := sl.TopLevel()
	require.Greater(t, top, 0)

	for i := 0; i < 64; i++ {
		require.True(t, sl.Delete(i))
	}
	assert.Equal(t, 0, sl.Len())
	assert.Equal(t, 0, sl.TopLevel())

	// header 在所有層級都不得再有後繼
	head := sl.GetHead()
	for h := 0; h <= sl.MaxLevel(); h++ {
		assert.Nil(t, head.GetNextAt(h), "level %d still linked after full deletion", h)
	}
}

func TestRandomLevelDistribution(t *testing.T) {
	sl, err := NewWithConfig[int, int](10, 0.5, 42)
	require.NoError(t, err)

	const samples = 1000
	zeros := 0
	for i := 0; i < samples; i++ {
		lvl := sl.randomLevel()
		require.GreaterOrEqual(t, lvl, 0)
		require.LessOrEqual(t, lvl, 10)
		if lvl == 0 {
			zeros++
		}
	}
	// p=0.5 時約半數樣本應為 0
	assert.Greater(t, zeros, 400)
	assert.Less(t, zeros, 600)
}

func TestRandomOperations(t *testing.T) {
	sl := New[int, int](123)
	rng := rand.New(rand.NewSource(123))
	reference := make(map[int]int)

	for i := 0; i < 5000; i++ {
		key := rng.Intn(200)
		switch rng.Intn(3) {
		case 0:
			sl.Put(key, i)
			reference[key] = i
		case 1:
			_, found := sl.Get(key)
			_, want := reference[key]
			require.Equal(t, want, found, "Get(%d) mismatch at op %d", key, i)
		case 2:
			_, want := reference[key]
			require.Equal(t, want, sl.Delete(key), "Delete(%d) mismatch at op %d", key, i)
			delete(reference, key)
		}
	}

	require.Equal(t, len(reference), sl.Len())
	items := sl.Items()
	for i := 1; i < len(items); i++ {
		require.Less(t, items[i-1].Key, items[i].Key, "items not strictly increasing")
	}
	for k, v := range reference {
		got, found := sl.Get(k)
		require.True(t, found, "key %d missing", k)
		require.Equal(t, v, got)
	}
}

func TestPutRejectsNaNKey(t *testing.T) {
	sl := New[float64, int](42)
	sl.Put(1.5, 1)

	// NaN 無法比較，放行會在同一 key 上重複建節點
	assert.Panics(t, func() { sl.Put(math.NaN(), 2) })
	assert.Equal(t, 1, sl.Len())

	// 查詢與刪除對 NaN 只會得到否定結果，不改變結構
	assert.False(t, sl.Contains(math.NaN()))
	assert.False(t, sl.Delete(math.NaN()))
	assert.Equal(t, 1, sl.Len())
}

func TestItemsIsSnapshot(t *testing.T) {
	sl := New[int, string](42)
	sl.Put(1, "one")
	sl.Put(2, "two")

	snap := sl.Items()
	sl.Put(3, "three")
	sl.Delete(1)

	assert.Equal(t, []Entry[int, string]{{1, "one"}, {2, "two"}}, snap)
}
