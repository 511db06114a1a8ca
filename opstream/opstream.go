// Package opstream 產生與重播跳躍表的操作序列，供 benchmark 與調參工具使用。
package opstream

import "math"

// OpKind 表示操作種類
type OpKind uint8

const (
	OpLookup OpKind = iota
	OpInsert
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpLookup:
		return "Lookup"
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Op 表示一筆操作
type Op struct {
	Kind OpKind
	Key  int64
}

// Generator 提供帶分布的 key 序列
type Generator interface {
	// Next 回傳下一個 key
	Next() int64
	// KeyMap 回傳每個 key 的出現機率
	KeyMap() map[int64]float64
	// Entropy 回傳分布的熵（bits）
	Entropy() float64
}

// SequenceModel 以既有的操作序列提供順序重播
type SequenceModel struct {
	ops []Op
	pos int
}

// NewSequenceModel 由外部供給的操作序列建立模型
func NewSequenceModel(ops []Op) *SequenceModel {
	cp := make([]Op, len(ops))
	copy(cp, ops)
	return &SequenceModel{ops: cp}
}

// Next 回傳下一筆操作，序列結束時回傳零值與 false
func (m *SequenceModel) Next() (Op, bool) {
	if m.pos >= len(m.ops) {
		return Op{}, false
	}
	op := m.ops[m.pos]
	m.pos++
	return op, true
}

// Len 回傳序列總長度
func (m *SequenceModel) Len() int { return len(m.ops) }

// Reset 游標重置到起點
func (m *SequenceModel) Reset() { m.pos = 0 }

// EntropyOf 計算分布的熵（bits）
func EntropyOf(dist map[int64]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
