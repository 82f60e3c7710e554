package btree

import "hctree/pkg/common"

// Insert stores val under key. An existing key keeps its slot and only the
// payload is replaced.
func (tr *Tree[V]) Insert(key common.KeyType, val V) {
	r := tr.root
	if r.full(tr.t) {
		s := newNode[V](tr.t, false)
		s.children = append(s.children, r)
		tr.root = s
		tr.splitChild(s, 0)
	}
	tr.insertNonFull(tr.root, key, val)
}

// splitChild splits the full child x.children[i] around its median, which
// moves up into x at position i. The upper half becomes a new sibling at i+1.
func (tr *Tree[V]) splitChild(x *node[V], i int) {
	t := tr.t
	y := x.children[i]
	z := newNode[V](t, y.leaf)

	z.keys = append(z.keys, y.keys[t:]...)
	z.vals = append(z.vals, y.vals[t:]...)
	if !y.leaf {
		z.children = append(z.children, y.children[t:]...)
		clear(y.children[t:])
		y.children = y.children[:t]
	}

	midKey, midVal := y.keys[t-1], y.vals[t-1]
	var zero V
	for j := t - 1; j < len(y.vals); j++ {
		y.vals[j] = zero
	}
	y.keys = y.keys[:t-1]
	y.vals = y.vals[:t-1]

	x.insertAt(i, midKey, midVal)
	x.insertChildAt(i+1, z)
}

func (tr *Tree[V]) insertNonFull(x *node[V], key common.KeyType, val V) {
	for {
		i, found := x.find(key)
		if found {
			x.vals[i] = val
			return
		}
		if x.leaf {
			x.insertAt(i, key, val)
			tr.size++
			return
		}
		if x.children[i].full(tr.t) {
			tr.splitChild(x, i)
			switch {
			case key == x.keys[i]:
				x.vals[i] = val
				return
			case key > x.keys[i]:
				i++
			}
		}
		x = x.children[i]
	}
}
