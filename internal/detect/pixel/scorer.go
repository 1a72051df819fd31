package pixel

import (
	"fmt"
	"math"
	"strings"

	"github.com/verilens/verilens/internal/detect/subscore"
	"github.com/verilens/verilens/internal/domain/analysis"
)

// fakeThreshold is the verdict boundary; a score of exactly 45 counts as
// fake.
const fakeThreshold = 45

type rule struct {
	points float64
	reason string
	match  func(v SignalVector) bool
}

// rules is the additive suspicion table. Order does not matter: every rule
// is independent, contributing rules stack.
var rules = []rule{
	{35, "perfect mathematical gradients", func(v SignalVector) bool {
		return v.PerfectGradientRatio > 0.02
	}},
	{30, "unnatural color-ratio consistency", func(v SignalVector) bool {
		return v.ColorConsistencyRatio > 0.15
	}},
	{25, "excessive symmetry", func(v SignalVector) bool {
		return v.SymmetryRatio > 0.4
	}},
	{20, "suspicious frequency pattern", func(v SignalVector) bool {
		return v.FrequencyAnomalyRatio > 0.1
	}},
	{25, "unnatural smoothness", func(v SignalVector) bool {
		return v.SmoothnessRatio > 0.5 && v.EdgeRatio < 0.15
	}},
	{30, "high variance with perfect elements", func(v SignalVector) bool {
		return v.AvgVariance > 50 && v.PerfectGradientRatio > 0.01 && v.ColorConsistencyRatio > 0.1
	}},
	{25, "unnaturally low variance", func(v SignalVector) bool {
		return v.AvgVariance < 15
	}},
	{20, "digital artifacts", func(v SignalVector) bool {
		return v.ArtifactRatio > 0.05
	}},
	{15, "suspicious compression", func(v SignalVector) bool {
		return v.CompressionRatio > 0.05 && v.AvgVariance > 30
	}},
	{15, "unnatural color uniformity", func(v SignalVector) bool {
		return v.AvgColorVariance < 8
	}},
	{10, "lacking texture detail", func(v SignalVector) bool {
		return v.EdgeRatio < 0.08
	}},
	{20, "stylized imagery", func(v SignalVector) bool {
		return v.AvgVariance > 40 && v.SymmetryRatio > 0.3 && v.PerfectGradientRatio > 0.015
	}},
}

// Score accumulates the fake score and triggered reason list for one
// signal vector. Pure: identical vectors always yield identical output.
func Score(v SignalVector) (fakeScore float64, reasons []string) {
	for _, r := range rules {
		if r.match(v) {
			fakeScore += r.points
			reasons = append(reasons, r.reason)
		}
	}
	return fakeScore, reasons
}

// Scorer converts a SignalVector into the normalized result shape.
type Scorer struct {
	synth *subscore.Synthesizer
}

func NewScorer(synth *subscore.Synthesizer) *Scorer {
	return &Scorer{synth: synth}
}

// Result classifies the vector. Confidence is min(95, 55+0.8s) for fakes
// and max(60, 100-1.2s) for authentic images, which keeps it inside
// [0,100] by construction.
func (s *Scorer) Result(v SignalVector) analysis.ScoreResult {
	fakeScore, reasons := Score(v)
	isDeepfake := fakeScore >= fakeThreshold

	var confidence float64
	if isDeepfake {
		confidence = math.Min(95, 55+0.8*fakeScore)
	} else {
		confidence = math.Max(60, 100-1.2*fakeScore)
	}

	return analysis.ScoreResult{
		FakeScore:   fakeScore,
		IsDeepfake:  isDeepfake,
		Confidence:  confidence,
		SubScores:   s.synth.Expand(isDeepfake, confidence, subscore.HeuristicBounds),
		Explanation: explanation(isDeepfake, reasons, confidence),
	}
}

func explanation(isDeepfake bool, reasons []string, confidence float64) string {
	verdict := "image appears authentic"
	if isDeepfake {
		verdict = "image appears synthetic"
	}
	if len(reasons) == 0 {
		return fmt.Sprintf("%s: no suspicious signals (%d%% confidence)", verdict, int(math.Round(confidence)))
	}
	return fmt.Sprintf("%s: %s (%d%% confidence)", verdict, strings.Join(reasons, ", "), int(math.Round(confidence)))
}
