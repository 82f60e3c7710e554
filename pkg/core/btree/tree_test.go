package btree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hctree/pkg/common"
)

func newTestTree(t *testing.T, degree int) *Tree[int] {
	t.Helper()
	tr, err := New[int](degree)
	require.NoError(t, err)
	return tr
}

func TestNewRejectsSmallDegree(t *testing.T) {
	for _, d := range []int{-1, 0, 1} {
		tr, err := New[int](d)
		assert.Nil(t, tr)
		assert.True(t, errors.Is(err, ErrInvalidDegree), "degree %d: %v", d, err)
	}
	tr, err := New[int](2)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 1, tr.Height())
}

// Keys 10,20,5,6,12,30,7,17 with t=2 produce root [10 20] over
// [5 6 7], [12 17], [30].
func TestInsertSplitTrace(t *testing.T) {
	tr := newTestTree(t, 2)
	for _, k := range []common.KeyType{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(k, int(k)*10)
	}
	require.NoError(t, tr.Check())

	type level struct {
		depth int
		keys  []common.KeyType
		leaf  bool
	}
	var got []level
	tr.Walk(func(depth int, keys []common.KeyType, leaf bool) {
		got = append(got, level{depth, keys, leaf})
	})
	assert.Equal(t, []level{
		{0, []common.KeyType{10, 20}, false},
		{1, []common.KeyType{5, 6, 7}, true},
		{1, []common.KeyType{12, 17}, true},
		{1, []common.KeyType{30}, true},
	}, got)
	assert.Equal(t, 2, tr.Height())
	assert.Equal(t, 8, tr.Len())
	assert.Equal(t, 8, tr.CountKeys())
}

func TestRootSplitPromotesMedian(t *testing.T) {
	tr := newTestTree(t, 3)
	for k := common.KeyType(1); k <= 5; k++ {
		tr.Insert(k, int(k))
	}
	assert.Equal(t, 1, tr.Height())
	tr.Insert(6, 6)
	assert.Equal(t, 2, tr.Height())

	var root []common.KeyType
	tr.Walk(func(depth int, keys []common.KeyType, _ bool) {
		if depth == 0 {
			root = keys
		}
	})
	assert.Equal(t, []common.KeyType{3}, root)
	require.NoError(t, tr.Check())
}

func TestInsertOverwrite(t *testing.T) {
	tr := newTestTree(t, 2)
	for k := common.KeyType(0); k < 50; k++ {
		tr.Insert(k, 1)
	}
	// separators live in internal nodes; overwrite must hit them in place
	for k := common.KeyType(0); k < 50; k++ {
		tr.Insert(k, 2)
	}
	require.NoError(t, tr.Check())
	assert.Equal(t, 50, tr.Len())
	assert.Equal(t, 50, tr.CountKeys())
	for k := common.KeyType(0); k < 50; k++ {
		v, ok := tr.Get(k)
		require.True(t, ok)
		assert.Equal(t, 2, v, "key %d", k)
	}
}

func TestSearchVisits(t *testing.T) {
	tr := newTestTree(t, 2)
	for _, k := range []common.KeyType{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(k, int(k))
	}

	var st Stats
	v, ok := tr.Search(10, &st)
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, int64(1), st.NodeVisits)

	v, ok = tr.Search(17, &st)
	assert.True(t, ok)
	assert.Equal(t, 17, v)
	assert.Equal(t, int64(3), st.NodeVisits)

	_, ok = tr.Search(11, &st)
	assert.False(t, ok)
	assert.Equal(t, int64(5), st.NodeVisits)

	_, ok = tr.Search(11, nil)
	assert.False(t, ok)
}

func TestSearchEmptyTree(t *testing.T) {
	tr := newTestTree(t, 4)
	var st Stats
	_, ok := tr.Search(1, &st)
	assert.False(t, ok)
	assert.Equal(t, int64(1), st.NodeVisits)
	assert.Equal(t, 0, tr.CountKeys())
}

func collect(tr *Tree[int], lo, hi common.KeyType, st *Stats) []common.KeyType {
	var out []common.KeyType
	tr.RangeSearch(lo, hi, func(k common.KeyType, _ int) {
		out = append(out, k)
	}, st)
	return out
}

func TestRangeSearchPrunes(t *testing.T) {
	tr := newTestTree(t, 2)
	for _, k := range []common.KeyType{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(k, int(k))
	}

	tests := []struct {
		name   string
		lo, hi common.KeyType
		want   []common.KeyType
		visits int64
	}{
		{"middle", 6, 12, []common.KeyType{6, 7, 10, 12}, 3},
		{"gap", 21, 29, nil, 2},
		{"separator only", 10, 10, []common.KeyType{10}, 1},
		{"left leaf", 0, 5, []common.KeyType{5}, 2},
		{"right leaf", 25, 100, []common.KeyType{30}, 2},
		{"all", -100, 100, []common.KeyType{5, 6, 7, 10, 12, 17, 20, 30}, 4},
		{"inverted", 12, 6, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st Stats
			assert.Equal(t, tt.want, collect(tr, tt.lo, tt.hi, &st))
			assert.Equal(t, tt.visits, st.NodeVisits)
		})
	}
}

func TestRandomInsertsMatchOracle(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, degree := range []int{2, 3, 4, 8, 32} {
		tr := newTestTree(t, degree)
		oracle := map[common.KeyType]int{}
		for i := 0; i < 3000; i++ {
			k := common.KeyType(rng.IntN(2000))
			tr.Insert(k, i)
			oracle[k] = i
		}
		require.NoError(t, tr.Check(), "degree %d", degree)
		require.Equal(t, len(oracle), tr.Len())

		for k := common.KeyType(-5); k < 2005; k++ {
			v, ok := tr.Get(k)
			want, exists := oracle[k]
			require.Equal(t, exists, ok, "key %d", k)
			if exists {
				require.Equal(t, want, v, "key %d", k)
			}
		}

		sorted := make([]common.KeyType, 0, len(oracle))
		for k := range oracle {
			sorted = append(sorted, k)
		}
		slices.Sort(sorted)
		for j := 0; j < 50; j++ {
			lo := common.KeyType(rng.IntN(2100) - 50)
			hi := lo + common.KeyType(rng.IntN(300))
			var want []common.KeyType
			for _, k := range sorted {
				if k >= lo && k <= hi {
					want = append(want, k)
				}
			}
			assert.Equal(t, want, collect(tr, lo, hi, nil), "degree %d range [%d,%d]", degree, lo, hi)
		}
	}
}

func TestSequentialInsertHeight(t *testing.T) {
	tr := newTestTree(t, 32)
	for k := common.KeyType(0); k < 100000; k++ {
		tr.Insert(k, int(k))
	}
	require.NoError(t, tr.Check())
	assert.Equal(t, 100000, tr.Len())
	assert.LessOrEqual(t, tr.Height(), 4)
}
