package core

import "hctree/pkg/common"

// Index is the surface the benchmark harness drives. Implemented by the plain
// B-tree, the hot/cold tiered index and the google/btree memtable.
type Index[V any] interface {
	Insert(key common.KeyType, val V)
	Get(key common.KeyType) (V, bool)
	Range(lo, hi common.KeyType, fn func(key common.KeyType, val V))
	Len() int
	Type() string // "BTree", "HCTree", "GoogleBTree"
}
