// Package btree implements the in-memory ordered tree that backs both tiers of
// the hot/cold index.
//
// # Structure
//
// A tree of minimum degree t keeps between t-1 and 2t-1 keys in every node
// except the root. Nodes are owned by exactly one parent and hold their keys,
// payloads and (for internal nodes) keys+1 children in slices pre-sized to the
// node capacity.
//
// # Insertion
//
// Insertion is a single top-down pass. Any full child is split before the
// descent enters it, so the target leaf always has room. A full root is split
// under a fresh root, which is the only way the tree grows taller.
//
// # Instrumentation
//
// Search and RangeSearch accept an optional *Stats that counts every node
// examined. It never changes control flow:
//
//	var st btree.Stats
//	v, ok := tree.Search(42, &st)
//	fmt.Println(v, ok, st.NodeVisits)
package btree
