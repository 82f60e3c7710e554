package btree

import "hctree/pkg/common"

// Search returns the payload stored under key. st, when non-nil, is charged
// one visit per node examined.
func (tr *Tree[V]) Search(key common.KeyType, st *Stats) (V, bool) {
	n := tr.root
	for {
		st.visit()
		i, found := n.find(key)
		if found {
			return n.vals[i], true
		}
		if n.leaf {
			var zero V
			return zero, false
		}
		n = n.children[i]
	}
}

// Get is Search without instrumentation.
func (tr *Tree[V]) Get(key common.KeyType) (V, bool) {
	return tr.Search(key, nil)
}

// RangeSearch calls fn for every key in [lo, hi] in ascending order. Subtrees
// that lie wholly outside the range are never entered.
func (tr *Tree[V]) RangeSearch(lo, hi common.KeyType, fn func(key common.KeyType, val V), st *Stats) {
	if lo > hi {
		return
	}
	tr.rangeNode(tr.root, lo, hi, fn, st)
}

// Range is RangeSearch without instrumentation.
func (tr *Tree[V]) Range(lo, hi common.KeyType, fn func(key common.KeyType, val V)) {
	tr.RangeSearch(lo, hi, fn, nil)
}

func (tr *Tree[V]) rangeNode(n *node[V], lo, hi common.KeyType, fn func(key common.KeyType, val V), st *Stats) {
	st.visit()
	for i, k := range n.keys {
		// children[i] holds keys in (keys[i-1], k)
		if !n.leaf && lo < k && (i == 0 || n.keys[i-1] < hi) {
			tr.rangeNode(n.children[i], lo, hi, fn, st)
		}
		if k > hi {
			return
		}
		if k >= lo {
			fn(k, n.vals[i])
		}
	}
	if !n.leaf {
		if last := len(n.keys) - 1; last < 0 || n.keys[last] < hi {
			tr.rangeNode(n.children[len(n.keys)], lo, hi, fn, st)
		}
	}
}
