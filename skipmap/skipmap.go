package skipmap

import (
	"cmp"
	"errors"
	"math/rand"
)

const (
	// DefaultMaxLevel 預設最大層級
	DefaultMaxLevel = 16
	// DefaultProbability 預設升級機率
	DefaultProbability = 0.5
)

var (
	// ErrInvalidMaxLevel maxLevel 必須為正數
	ErrInvalidMaxLevel = errors.New("skipmap: max level must be > 0")
	// ErrInvalidProbability 升級機率必須落在 (0, 1) 開區間
	ErrInvalidProbability = errors.New("skipmap: probability must be in (0, 1)")
)

type node[K cmp.Ordered, V any] struct {
	key   K
	value V
	next  []*node[K, V]
}

func newNode[K cmp.Ordered, V any](key K, value V, level int) *node[K, V] {
	return &node[K, V]{
		key:   key,
		value: value,
		next:  make([]*node[K, V], level+1),
	}
}

// SkipList 泛型跳躍表，key 依 < 嚴格遞增排序。
// 非並行安全：多執行緒讀寫需由呼叫端自行加鎖。
// 浮點 key 不得為 NaN：NaN 不參與全序比較，Put 會直接 panic 以免破壞排序不變量。
type SkipList[K cmp.Ordered, V any] struct {
	head     *node[K, V] // 哨兵節點，存在於所有層級
	level    int         // 目前有節點的最高層級（空表為 0）
	maxLevel int
	p        float64
	rand     *rand.Rand
	size     int
}

// New 以預設參數（maxLevel=16, p=0.5）建立跳躍表
func New[K cmp.Ordered, V any](seed int64) *SkipList[K, V] {
	sl, _ := NewWithConfig[K, V](DefaultMaxLevel, DefaultProbability, seed)
	return sl
}

// NewWithConfig 建立跳躍表，參數不合法時立即回傳錯誤而非默默修正
func NewWithConfig[K cmp.Ordered, V any](maxLevel int, p float64, seed int64) (*SkipList[K, V], error) {
	if maxLevel <= 0 {
		return nil, ErrInvalidMaxLevel
	}
	if p <= 0 || p >= 1 {
		return nil, ErrInvalidProbability
	}
	var zeroK K
	var zeroV V
	return &SkipList[K, V]{
		head:     newNode(zeroK, zeroV, maxLevel),
		level:    0,
		maxLevel: maxLevel,
		p:        p,
		rand:     rand.New(rand.NewSource(seed)),
	}, nil
}

// isNaN 偵測無法自比較的 key（浮點 NaN），其他有序型別恆為 false
func isNaN[K cmp.Ordered](key K) bool {
	return key != key
}

// randomLevel 以 Bernoulli(p) 試驗產生新節點層級，上限 maxLevel
func (sl *SkipList[K, V]) randomLevel() int {
	lvl := 0
	for sl.rand.Float64() < sl.p && lvl < sl.maxLevel {
		lvl++
	}
	return lvl
}

// descend 由最高層走到第 0 層，回傳每層最後停留的前驅節點
func (sl *SkipList[K, V]) descend(key K) []*node[K, V] {
	update := make([]*node[K, V], sl.maxLevel+1)
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && cur.next[h].key < key {
			cur = cur.next[h]
		}
		update[h] = cur
	}
	return update
}

// Get 取得 key 對應的 value
func (sl *SkipList[K, V]) Get(key K) (V, bool) {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && cur.next[h].key < key {
			cur = cur.next[h]
		}
	}
	if nd := cur.next[0]; nd != nil && nd.key == key {
		return nd.value, true
	}
	var zero V
	return zero, false
}

// Contains 判斷 key 是否存在
func (sl *SkipList[K, V]) Contains(key K) bool {
	_, found := sl.Get(key)
	return found
}

// Put 插入或更新 key 對應的 value。
// 更新既有 key 時不重新抽樣層級，結構維持不變。
func (sl *SkipList[K, V]) Put(key K, value V) {
	if isNaN(key) {
		panic("skipmap: key does not support total ordering (NaN)")
	}
	update := sl.descend(key)

	if nd := update[0].next[0]; nd != nil && nd.key == key {
		nd.value = value
		return
	}

	lvl := sl.randomLevel()
	if lvl > sl.level {
		// 新層級超過目前最高層，header 補進 update vector
		for h := sl.level + 1; h <= lvl; h++ {
			update[h] = sl.head
		}
		sl.level = lvl
	}

	nd := newNode(key, value, lvl)
	for h := 0; h <= lvl; h++ {
		nd.next[h] = update[h].next[h]
		update[h].next[h] = nd
	}
	sl.size++
}

// Delete 刪除 key，回傳是否有刪除發生
func (sl *SkipList[K, V]) Delete(key K) bool {
	update := sl.descend(key)

	target := update[0].next[0]
	if target == nil || target.key != key {
		return false
	}

	for h := 0; h <= sl.level; h++ {
		if update[h].next[h] != target {
			// 目標節點不存在於更高層級
			break
		}
		update[h].next[h] = target.next[h]
	}

	// 最高層清空時向下收斂
	for sl.level > 0 && sl.head.next[sl.level] == nil {
		sl.level--
	}
	sl.size--
	return true
}

// Len 回傳目前元素數量
func (sl *SkipList[K, V]) Len() int {
	return sl.size
}

// Items 回傳第 0 層走訪的 (key, value) 快照，依 key 遞增排序。
// 回傳的 slice 與結構無共享，後續修改不影響快照。
func (sl *SkipList[K, V]) Items() []Entry[K, V] {
	items := make([]Entry[K, V], 0, sl.size)
	for nd := sl.head.next[0]; nd != nil; nd = nd.next[0] {
		items = append(items, Entry[K, V]{Key: nd.key, Value: nd.value})
	}
	return items
}

// LevelKeys 回傳第 level 層由 header 出發可達的 key 序列，僅供視覺化使用
func (sl *SkipList[K, V]) LevelKeys(level int) []K {
	if level < 0 || level > sl.maxLevel {
		return nil
	}
	var keys []K
	for nd := sl.head.next[level]; nd != nil; nd = nd.next[level] {
		keys = append(keys, nd.key)
	}
	return keys
}

// TopLevel 回傳目前有節點存在的最高層級，空表為 0
func (sl *SkipList[K, V]) TopLevel() int {
	return sl.level
}

// MaxLevel 回傳設定的層級上限
func (sl *SkipList[K, V]) MaxLevel() int {
	return sl.maxLevel
}

// GetHead 回傳 header 哨兵節點
func (sl *SkipList[K, V]) GetHead() Nodelike[K, V] {
	return sl.head
}

// node 實作 Nodelike 介面
func (nd *node[K, V]) GetKey() K {
	return nd.key
}

func (nd *node[K, V]) GetValue() V {
	return nd.value
}

func (nd *node[K, V]) GetLevel() int {
	return len(nd.next) - 1
}

func (nd *node[K, V]) GetNextAt(level int) Nodelike[K, V] {
	if level < 0 || level >= len(nd.next) {
		return nil
	}
	if nd.next[level] == nil {
		return nil
	}
	return nd.next[level]
}
