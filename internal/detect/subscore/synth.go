package subscore

import (
	"math/rand"
	"sync"

	"github.com/verilens/verilens/internal/domain/analysis"
)

// Bounds carries the per-engine jitter and clamp table. The two engines
// intentionally use different bounds and they must stay distinct.
type Bounds struct {
	Jitter float64
	Min    float64
	Max    float64
}

// HeuristicBounds is used for pixel-engine results.
var HeuristicBounds = Bounds{Jitter: 6, Min: 20, Max: 88}

// ModelBounds is used for model-parsed results.
var ModelBounds = Bounds{Jitter: 7.5, Min: 15, Max: 95}

// Synthesizer expands one confidence value into four correlated category
// sub-scores so downstream consumers are engine-agnostic. One synthesizer
// serves every job goroutine; mu serializes draws from the source, which
// is not goroutine-safe.
type Synthesizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a synthesizer owning the given random source. The source
// must not be shared with other components. Pass a seeded source in tests
// for reproducible jitter.
func New(rnd *rand.Rand) *Synthesizer {
	return &Synthesizer{rnd: rnd}
}

// Expand derives the four category scores. baseScore mirrors the verdict:
// for a deepfake the categories trend low, for authentic media they track
// the confidence directly. Category status follows the overall verdict,
// not the individual score magnitude.
func (s *Synthesizer) Expand(isDeepfake bool, confidence float64, b Bounds) analysis.SubScores {
	base := confidence
	if isDeepfake {
		base = 100 - confidence
	}

	status := analysis.SubScoreAuthentic
	if isDeepfake {
		status = analysis.SubScoreSuspicious
	}

	var jitters [4]float64
	s.mu.Lock()
	for i := range jitters {
		jitters[i] = (s.rnd.Float64()*2 - 1) * b.Jitter
	}
	s.mu.Unlock()

	one := func(jitter float64) analysis.SubScore {
		return analysis.SubScore{Score: clamp(base+jitter, b.Min, b.Max), Status: status}
	}

	return analysis.SubScores{
		Spatial:  one(jitters[0]),
		Temporal: one(jitters[1]),
		Audio:    one(jitters[2]),
		Metadata: one(jitters[3]),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
