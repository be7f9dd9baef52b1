package market

import (
	"math/rand"
	"time"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// personalityParams shapes a model's forecast around the starting price.
// Bias skews the forecast directionally, spread widens the random component,
// and the confidence range reflects how sure the personality claims to be.
type personalityParams struct {
	bias    float64
	spread  float64
	confMin int
	confMax int
}

// forecastParams maps each roster personality to its perturbation shape.
// Unknown personalities are rejected at config validation, so lookups here
// never miss.
var forecastParams = map[string]personalityParams{
	"momentum":   {bias: 0.02, spread: 0.03, confMin: 60, confMax: 95},
	"contrarian": {bias: -0.02, spread: 0.03, confMin: 55, confMax: 90},
	"steady":     {bias: 0, spread: 0.01, confMin: 70, confMax: 99},
	"degen":      {bias: 0, spread: 0.08, confMin: 50, confMax: 99},
}

// Forecaster produces one forecast and confidence per roster model for a
// given starting price.
type Forecaster struct {
	rand *rand.Rand
}

// NewForecaster creates a Forecaster. A nil rng is seeded from the current
// time.
func NewForecaster(rng *rand.Rand) *Forecaster {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Forecaster{rand: rng}
}

// Predictions returns a copy of the roster with a fresh prediction and
// confidence filled in for each model. It is a pure function of the starting
// price, the roster, and the randomness source; roster order is preserved.
func (f *Forecaster) Predictions(startPrice float64, roster []domain.Model) []domain.Model {
	out := make([]domain.Model, len(roster))
	for i, m := range roster {
		p := forecastParams[m.Personality]
		jitter := (f.rand.Float64()*2 - 1) * p.spread
		m.Prediction = startPrice * (1 + p.bias + jitter)
		m.Confidence = p.confMin + f.rand.Intn(p.confMax-p.confMin+1)
		out[i] = m
	}
	return out
}
