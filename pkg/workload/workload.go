// Package workload generates the key streams that drive benchmark runs.
package workload

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"

	"hctree/pkg/common"
)

var ErrUnknownWorkload = errors.New("unknown workload")

// Generator yields keys in [0, N).
type Generator interface {
	Next() common.KeyType
	Name() string
}

// New builds the generator named kind over n keys. theta only applies to zipf.
func New(kind string, n int64, theta float64, seed uint64) (Generator, error) {
	if n <= 0 {
		return nil, errors.Errorf("workload: key count %d must be positive", n)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	switch kind {
	case "uniform":
		return &Uniform{rng: rng, n: n}, nil
	case "zipf":
		if theta <= 0 {
			return nil, errors.Errorf("workload: zipf exponent %v must be positive", theta)
		}
		return NewZipf(rng, n, theta), nil
	default:
		return nil, errors.Wrapf(ErrUnknownWorkload, "%q", kind)
	}
}

type Uniform struct {
	rng *rand.Rand
	n   int64
}

func (u *Uniform) Next() common.KeyType {
	return common.KeyType(u.rng.Int64N(u.n))
}

func (u *Uniform) Name() string { return "uniform" }

// Zipf samples rank r (0-based) with probability proportional to
// 1/(r+1)^theta, so key 0 is the most popular.
type Zipf struct {
	rng   *rand.Rand
	cdf   []float64
	theta float64
}

func NewZipf(rng *rand.Rand, n int64, theta float64) *Zipf {
	cdf := make([]float64, n)
	var sum float64
	for k := int64(1); k <= n; k++ {
		sum += 1.0 / math.Pow(float64(k), theta)
	}
	var acc float64
	for k := int64(1); k <= n; k++ {
		acc += 1.0 / math.Pow(float64(k), theta) / sum
		cdf[k-1] = acc
	}
	return &Zipf{rng: rng, cdf: cdf, theta: theta}
}

func (z *Zipf) Next() common.KeyType {
	u := z.rng.Float64()
	i := sort.SearchFloat64s(z.cdf, u)
	if i >= len(z.cdf) {
		i = len(z.cdf) - 1
	}
	return common.KeyType(i)
}

func (z *Zipf) Name() string { return "zipf" }

func (z *Zipf) Theta() float64 { return z.theta }
