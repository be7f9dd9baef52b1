// Package market implements the simulated price source and the per-model
// prediction generator. Both take an injected randomness source so outcomes
// are reproducible under a fixed seed.
package market

import (
	"math/rand"
	"time"
)

// PriceSource produces simulated asset price samples.
type PriceSource interface {
	// Sample returns one positive price. Samples are independent of prior
	// calls; no state is carried between invocations other than the
	// randomness source.
	Sample() float64
}

// SimPriceSource generates prices as a uniform perturbation around a fixed
// base price: base * (1 ± volatility).
type SimPriceSource struct {
	base       float64
	volatility float64
	rand       *rand.Rand
}

// NewSimPriceSource creates a SimPriceSource. A nil rng is seeded from the
// current time.
func NewSimPriceSource(base, volatility float64, rng *rand.Rand) *SimPriceSource {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimPriceSource{
		base:       base,
		volatility: volatility,
		rand:       rng,
	}
}

// Sample implements PriceSource.
func (s *SimPriceSource) Sample() float64 {
	jitter := (s.rand.Float64()*2 - 1) * s.volatility
	return s.base * (1 + jitter)
}
