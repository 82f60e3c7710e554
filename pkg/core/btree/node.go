package btree

import (
	"slices"

	"hctree/pkg/common"
)

type node[V any] struct {
	keys     []common.KeyType
	vals     []V
	children []*node[V]
	leaf     bool
}

func newNode[V any](t int, leaf bool) *node[V] {
	n := &node[V]{
		keys: make([]common.KeyType, 0, 2*t-1),
		vals: make([]V, 0, 2*t-1),
		leaf: leaf,
	}
	if !leaf {
		n.children = make([]*node[V], 0, 2*t)
	}
	return n
}

// find returns the index of the first key >= k and whether it equals k.
func (n *node[V]) find(k common.KeyType) (int, bool) {
	return slices.BinarySearch(n.keys, k)
}

func (n *node[V]) full(t int) bool {
	return len(n.keys) == 2*t-1
}

func (n *node[V]) insertAt(i int, k common.KeyType, v V) {
	n.keys = slices.Insert(n.keys, i, k)
	n.vals = slices.Insert(n.vals, i, v)
}

func (n *node[V]) insertChildAt(i int, c *node[V]) {
	n.children = slices.Insert(n.children, i, c)
}

func (n *node[V]) count() int {
	total := len(n.keys)
	for _, c := range n.children {
		total += c.count()
	}
	return total
}
