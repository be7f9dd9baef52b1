package market

import (
	"math"
	"math/rand"
	"testing"

	"github.com/dogeracehq/dogerace/internal/domain"
)

func TestSimPriceSource_SamplesStayWithinVolatilityBand(t *testing.T) {
	const (
		base       = 0.085
		volatility = 0.05
	)
	src := NewSimPriceSource(base, volatility, rand.New(rand.NewSource(42)))

	lo := base * (1 - volatility)
	hi := base * (1 + volatility)
	for i := 0; i < 1000; i++ {
		p := src.Sample()
		if p < lo || p > hi {
			t.Fatalf("sample #%d = %g, want within [%g, %g]", i, p, lo, hi)
		}
	}
}

func TestSimPriceSource_DeterministicUnderFixedSeed(t *testing.T) {
	a := NewSimPriceSource(0.085, 0.05, rand.New(rand.NewSource(7)))
	b := NewSimPriceSource(0.085, 0.05, rand.New(rand.NewSource(7)))

	for i := 0; i < 100; i++ {
		if pa, pb := a.Sample(), b.Sample(); pa != pb {
			t.Fatalf("sample #%d diverged: %g vs %g", i, pa, pb)
		}
	}
}

func testRoster() []domain.Model {
	return []domain.Model{
		{ID: "m1", Name: "Wow Oracle", Personality: "momentum", Color: "#F59E0B"},
		{ID: "m2", Name: "Such Signal", Personality: "contrarian", Color: "#DC2626"},
		{ID: "m3", Name: "Very Stable", Personality: "steady", Color: "#10B981"},
		{ID: "m4", Name: "Moon Former", Personality: "degen", Color: "#8B5CF6"},
	}
}

func TestPredictions_PreservesRosterOrderAndIdentity(t *testing.T) {
	f := NewForecaster(rand.New(rand.NewSource(1)))
	roster := testRoster()

	out := f.Predictions(0.085, roster)

	if len(out) != len(roster) {
		t.Fatalf("got %d models, want %d", len(out), len(roster))
	}
	for i, m := range out {
		if m.ID != roster[i].ID || m.Name != roster[i].Name || m.Personality != roster[i].Personality {
			t.Errorf("model %d identity changed: got %+v, want %+v", i, m, roster[i])
		}
	}

	// Input roster must stay untouched: predictions belong to the race, not
	// the static configuration.
	for i, m := range roster {
		if m.Prediction != 0 || m.Confidence != 0 {
			t.Errorf("input roster[%d] was mutated: %+v", i, m)
		}
	}
}

func TestPredictions_StayWithinPersonalityEnvelope(t *testing.T) {
	f := NewForecaster(rand.New(rand.NewSource(99)))
	roster := testRoster()
	const start = 0.085

	for trial := 0; trial < 200; trial++ {
		out := f.Predictions(start, roster)
		for _, m := range out {
			p := forecastParams[m.Personality]
			lo := start * (1 + p.bias - p.spread)
			hi := start * (1 + p.bias + p.spread)
			if m.Prediction < lo-1e-12 || m.Prediction > hi+1e-12 {
				t.Fatalf("%s prediction %g outside [%g, %g]", m.ID, m.Prediction, lo, hi)
			}
			if m.Confidence < p.confMin || m.Confidence > p.confMax {
				t.Fatalf("%s confidence %d outside [%d, %d]", m.ID, m.Confidence, p.confMin, p.confMax)
			}
		}
	}
}

func TestPredictions_SteadyIsTighterThanDegen(t *testing.T) {
	f := NewForecaster(rand.New(rand.NewSource(5)))
	roster := testRoster()
	const start = 0.085

	var steadyMax, degenMax float64
	for trial := 0; trial < 500; trial++ {
		for _, m := range f.Predictions(start, roster) {
			dev := math.Abs(m.Prediction-start) / start
			switch m.Personality {
			case "steady":
				if dev > steadyMax {
					steadyMax = dev
				}
			case "degen":
				if dev > degenMax {
					degenMax = dev
				}
			}
		}
	}

	if steadyMax >= degenMax {
		t.Errorf("steady max deviation %g should be below degen max deviation %g", steadyMax, degenMax)
	}
}

func TestPredictions_DeterministicUnderFixedSeed(t *testing.T) {
	a := NewForecaster(rand.New(rand.NewSource(11)))
	b := NewForecaster(rand.New(rand.NewSource(11)))
	roster := testRoster()

	outA := a.Predictions(0.085, roster)
	outB := b.Predictions(0.085, roster)
	for i := range outA {
		if outA[i].Prediction != outB[i].Prediction || outA[i].Confidence != outB[i].Confidence {
			t.Errorf("model %d diverged: %+v vs %+v", i, outA[i], outB[i])
		}
	}
}
