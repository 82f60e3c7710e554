package structure

import (
	"github.com/bits-and-blooms/bitset"

	"hctree/pkg/common"
)

// SeenSet marks keys of the domain [0, maxKey], one bit per key.
type SeenSet struct {
	bits   *bitset.BitSet
	maxKey common.KeyType
}

func NewSeenSet(maxKey common.KeyType) *SeenSet {
	return &SeenSet{
		bits:   bitset.New(uint(maxKey) + 1),
		maxKey: maxKey,
	}
}

// Mark records key and reports whether it was unmarked before. Keys outside
// the domain are never marked.
func (s *SeenSet) Mark(key common.KeyType) bool {
	if key < 0 || key > s.maxKey {
		return false
	}
	if s.bits.Test(uint(key)) {
		return false
	}
	s.bits.Set(uint(key))
	return true
}

func (s *SeenSet) Has(key common.KeyType) bool {
	if key < 0 || key > s.maxKey {
		return false
	}
	return s.bits.Test(uint(key))
}

func (s *SeenSet) Count() int {
	return int(s.bits.Count())
}

func (s *SeenSet) Reset() {
	s.bits.ClearAll()
}
