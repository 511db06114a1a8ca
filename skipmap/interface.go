package skipmap

import "cmp"

// Map 有序映射的公開操作介面
type Map[K cmp.Ordered, V any] interface {
	Contains(key K) bool
	Get(key K) (V, bool)
	Put(key K, value V)
	Delete(key K) bool
	Len() int
	Items() []Entry[K, V]
}

// Inspectable 提供結構內部走訪能力，供外部渲染與分析工具使用
type Inspectable[K cmp.Ordered, V any] interface {
	Map[K, V]
	// GetHead 回傳 header（哨兵節點，不含 key/value）
	GetHead() Nodelike[K, V]
	// TopLevel 回傳目前有節點存在的最高層級
	TopLevel() int
}

// Nodelike 節點的唯讀視圖，走訪時不得對結構做任何修改
type Nodelike[K cmp.Ordered, V any] interface {
	GetKey() K
	GetValue() V
	GetLevel() int
	GetNextAt(level int) Nodelike[K, V]
}

// Entry 一筆 key/value 配對
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}
