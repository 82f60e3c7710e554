package memory

import (
	"hctree/pkg/common"

	"github.com/google/btree"
)

type Item[V any] struct {
	Key common.KeyType
	Val V
}

func itemLess[V any](a, b Item[V]) bool {
	return a.Key < b.Key
}

// MemTable is an ordered index over github.com/google/btree. It serves as the
// "gbtree" benchmark mode and as a reference implementation in tests. Like the
// other indexes it carries no lock.
type MemTable[V any] struct {
	tree *btree.BTreeG[Item[V]]
}

func NewMemTable[V any](degree int) *MemTable[V] {
	return &MemTable[V]{
		tree: btree.NewG[Item[V]](degree, itemLess[V]),
	}
}

func (mt *MemTable[V]) Insert(key common.KeyType, val V) {
	mt.tree.ReplaceOrInsert(Item[V]{Key: key, Val: val})
}

func (mt *MemTable[V]) Get(key common.KeyType) (V, bool) {
	res, ok := mt.tree.Get(Item[V]{Key: key})
	return res.Val, ok
}

// Range calls fn for every key in [lo, hi], ascending.
func (mt *MemTable[V]) Range(lo, hi common.KeyType, fn func(key common.KeyType, val V)) {
	if lo > hi {
		return
	}
	mt.tree.AscendGreaterOrEqual(Item[V]{Key: lo}, func(it Item[V]) bool {
		if it.Key > hi {
			return false
		}
		fn(it.Key, it.Val)
		return true
	})
}

func (mt *MemTable[V]) Iterator(fn func(key common.KeyType, val V) bool) {
	mt.tree.Ascend(func(it Item[V]) bool {
		return fn(it.Key, it.Val)
	})
}

func (mt *MemTable[V]) Len() int {
	return mt.tree.Len()
}

func (mt *MemTable[V]) Type() string {
	return "GoogleBTree"
}
