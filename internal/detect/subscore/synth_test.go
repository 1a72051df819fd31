package subscore

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/verilens/verilens/internal/domain/analysis"
)

func scoresOf(s analysis.SubScores) []analysis.SubScore {
	return []analysis.SubScore{s.Spatial, s.Temporal, s.Audio, s.Metadata}
}

func TestExpandAuthentic(t *testing.T) {
	t.Parallel()

	synth := New(rand.New(rand.NewSource(1)))
	got := synth.Expand(false, 70, HeuristicBounds)

	for _, sc := range scoresOf(got) {
		if sc.Status != analysis.SubScoreAuthentic {
			t.Errorf("status = %q, want authentic", sc.Status)
		}
		// Base 70 with jitter 6 stays inside [64, 76].
		if sc.Score < 64 || sc.Score > 76 {
			t.Errorf("score %v outside jitter window [64, 76]", sc.Score)
		}
	}
}

func TestExpandDeepfakeInverts(t *testing.T) {
	t.Parallel()

	synth := New(rand.New(rand.NewSource(2)))
	got := synth.Expand(true, 90, ModelBounds)

	for _, sc := range scoresOf(got) {
		if sc.Status != analysis.SubScoreSuspicious {
			t.Errorf("status = %q, want suspicious", sc.Status)
		}
		// Base is 100-90=10 with jitter 7.5, clamped below at 15.
		if sc.Score < 15 || sc.Score > 17.5 {
			t.Errorf("score %v outside [15, 17.5]", sc.Score)
		}
	}
}

func TestExpandClampsHigh(t *testing.T) {
	t.Parallel()

	synth := New(rand.New(rand.NewSource(3)))
	got := synth.Expand(false, 100, HeuristicBounds)

	for _, sc := range scoresOf(got) {
		if sc.Score != HeuristicBounds.Max {
			t.Errorf("score = %v, want clamped to %v", sc.Score, HeuristicBounds.Max)
		}
	}
}

func TestBoundsStayDistinct(t *testing.T) {
	t.Parallel()

	if HeuristicBounds == ModelBounds {
		t.Error("heuristic and model bounds must differ")
	}
}

func TestExpandConcurrent(t *testing.T) {
	t.Parallel()

	// One synthesizer serves every job goroutine; concurrent Expand calls
	// must stay safe and inside the clamp bounds.
	synth := New(rand.New(rand.NewSource(4)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got := synth.Expand(true, 80, ModelBounds)
				for _, sc := range scoresOf(got) {
					if sc.Score < ModelBounds.Min || sc.Score > ModelBounds.Max {
						t.Errorf("score %v outside [%v, %v]", sc.Score, ModelBounds.Min, ModelBounds.Max)
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestExpandSeededReproducible(t *testing.T) {
	t.Parallel()

	a := New(rand.New(rand.NewSource(9))).Expand(false, 55, HeuristicBounds)
	b := New(rand.New(rand.NewSource(9))).Expand(false, 55, HeuristicBounds)
	if a != b {
		t.Errorf("same seed produced different sub-scores:\n%+v\n%+v", a, b)
	}
}
