package btree

import (
	"github.com/pkg/errors"

	"hctree/pkg/common"
)

// MinDegree is the smallest degree a tree accepts.
const MinDegree = 2

var (
	ErrInvalidDegree = errors.New("btree: degree must be at least 2")
	ErrCorrupt       = errors.New("btree: invariant violated")
)

// Stats accumulates node visits for one or more traversals.
type Stats struct {
	NodeVisits int64
}

func (s *Stats) visit() {
	if s != nil {
		s.NodeVisits++
	}
}

// Tree maps integer keys to caller-owned payloads. It is not safe for
// concurrent use.
type Tree[V any] struct {
	root *node[V]
	t    int
	size int
}

// New returns an empty tree of minimum degree t.
func New[V any](t int) (*Tree[V], error) {
	if t < MinDegree {
		return nil, errors.Wrapf(ErrInvalidDegree, "got %d", t)
	}
	return &Tree[V]{
		root: newNode[V](t, true),
		t:    t,
	}, nil
}

func (tr *Tree[V]) Degree() int {
	return tr.t
}

// Len returns the number of distinct keys, maintained on insert.
func (tr *Tree[V]) Len() int {
	return tr.size
}

// CountKeys walks every node and sums its keys. O(n); Len is the cheap
// equivalent.
func (tr *Tree[V]) CountKeys() int {
	if tr.root == nil {
		return 0
	}
	return tr.root.count()
}

// Height is the number of node levels; an empty tree has height 1.
func (tr *Tree[V]) Height() int {
	h := 1
	for n := tr.root; !n.leaf; n = n.children[0] {
		h++
	}
	return h
}

func (tr *Tree[V]) Type() string {
	return "BTree"
}

// Walk calls fn for every node in pre-order with the node's depth (root is 0)
// and a copy of its keys.
func (tr *Tree[V]) Walk(fn func(depth int, keys []common.KeyType, leaf bool)) {
	var walk func(n *node[V], depth int)
	walk = func(n *node[V], depth int) {
		keys := make([]common.KeyType, len(n.keys))
		copy(keys, n.keys)
		fn(depth, keys, n.leaf)
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(tr.root, 0)
}

// Check verifies node occupancy, key ordering, child partitioning and uniform
// leaf depth. It returns the first violation found.
func (tr *Tree[V]) Check() error {
	leafDepth := -1
	var check func(n *node[V], depth int, lo, hi *common.KeyType) error
	check = func(n *node[V], depth int, lo, hi *common.KeyType) error {
		nk := len(n.keys)
		if nk > 2*tr.t-1 {
			return errors.Wrapf(ErrCorrupt, "node at depth %d holds %d keys (max %d)", depth, nk, 2*tr.t-1)
		}
		if n != tr.root && nk < tr.t-1 {
			return errors.Wrapf(ErrCorrupt, "node at depth %d holds %d keys (min %d)", depth, nk, tr.t-1)
		}
		if len(n.vals) != nk {
			return errors.Wrapf(ErrCorrupt, "node at depth %d has %d keys but %d payloads", depth, nk, len(n.vals))
		}
		for i, k := range n.keys {
			if i > 0 && n.keys[i-1] >= k {
				return errors.Wrapf(ErrCorrupt, "keys not ascending at depth %d: %d then %d", depth, n.keys[i-1], k)
			}
			if lo != nil && k <= *lo {
				return errors.Wrapf(ErrCorrupt, "key %d not above separator %d", k, *lo)
			}
			if hi != nil && k >= *hi {
				return errors.Wrapf(ErrCorrupt, "key %d not below separator %d", k, *hi)
			}
		}
		if n.leaf {
			if len(n.children) != 0 {
				return errors.Wrapf(ErrCorrupt, "leaf at depth %d has children", depth)
			}
			if leafDepth == -1 {
				leafDepth = depth
			} else if leafDepth != depth {
				return errors.Wrapf(ErrCorrupt, "leaves at depths %d and %d", leafDepth, depth)
			}
			return nil
		}
		if len(n.children) != nk+1 {
			return errors.Wrapf(ErrCorrupt, "internal node at depth %d has %d keys and %d children", depth, nk, len(n.children))
		}
		for i, c := range n.children {
			clo, chi := lo, hi
			if i > 0 {
				clo = &n.keys[i-1]
			}
			if i < nk {
				chi = &n.keys[i]
			}
			if err := check(c, depth+1, clo, chi); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(tr.root, 0, nil, nil); err != nil {
		return err
	}
	if n := tr.CountKeys(); n != tr.size {
		return errors.Wrapf(ErrCorrupt, "counter says %d keys, tree holds %d", tr.size, n)
	}
	return nil
}
