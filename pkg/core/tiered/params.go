package tiered

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDomain        = errors.New("tiered: max key must be non-negative")
	ErrInvalidParams        = errors.New("tiered: invalid parameters")
	ErrExclusiveUnsupported = errors.New("tiered: exclusive (evicting) hot tier is not implemented")
)

// Params controls scoring and promotion.
type Params struct {
	DecayAlpha     float64 // weight kept by the previous score on each hit
	HotThreshold   float64 // score at which a cold hit is promoted
	MaxHotFraction float64 // hot tier capacity as a share of the key domain
	Inclusive      bool    // hot duplicates cold; must be true
}

func DefaultParams() Params {
	return Params{
		DecayAlpha:     0.9,
		HotThreshold:   8.0,
		MaxHotFraction: 0.05,
		Inclusive:      true,
	}
}

func (p Params) Validate() error {
	if !p.Inclusive {
		return ErrExclusiveUnsupported
	}
	if math.IsNaN(p.DecayAlpha) || p.DecayAlpha < 0 || p.DecayAlpha >= 1 {
		return errors.Wrapf(ErrInvalidParams, "decay_alpha %v outside [0, 1)", p.DecayAlpha)
	}
	if math.IsNaN(p.HotThreshold) {
		return errors.Wrap(ErrInvalidParams, "hot_threshold is NaN")
	}
	if math.IsNaN(p.MaxHotFraction) || p.MaxHotFraction < 0 || p.MaxHotFraction > 1 {
		return errors.Wrapf(ErrInvalidParams, "max_hot_fraction %v outside [0, 1]", p.MaxHotFraction)
	}
	return nil
}

// SteadyScore is the limit a key's score approaches when every query hits it.
func (p Params) SteadyScore() float64 {
	return 1 / (1 - p.DecayAlpha)
}
