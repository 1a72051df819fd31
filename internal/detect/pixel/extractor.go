package pixel

import (
	"image"
	"math"
	"math/rand"
	"sync"
)

// SignalVector holds the ten per-image statistics handed to the scorer.
// Ratios are in [0,1]; the two variance averages are unbounded
// non-negative floats.
type SignalVector struct {
	AvgVariance           float64
	AvgColorVariance      float64
	SmoothnessRatio       float64
	EdgeRatio             float64
	PerfectGradientRatio  float64
	ColorConsistencyRatio float64
	SymmetryRatio         float64
	FrequencyAnomalyRatio float64
	ArtifactRatio         float64
	CompressionRatio      float64
}

const (
	smoothnessDelta   = 3
	edgeDelta         = 25
	gradientMaxDelta  = 5
	ratioTolerance    = 0.1
	nearWhiteLevel    = 200
	nearWhiteDelta    = 5
	compressionFloor  = 400
	symmetryDistance  = 15
	maxSymmetrySample = 1000
)

// Extractor derives a SignalVector from a decoded RGBA raster in one
// linear pass plus one fixed-size random symmetry sample. One extractor
// serves every job goroutine; mu serializes draws from the source, which
// is not goroutine-safe.
type Extractor struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewExtractor creates an extractor owning the given random source. The
// source must not be shared with other components. It only drives the
// symmetry sampling; everything else is deterministic for identical pixel
// content.
func NewExtractor(rnd *rand.Rand) *Extractor {
	return &Extractor{rnd: rnd}
}

// Extract scans the raster. It never fails: callers substitute the neutral
// result when no decodable raster exists instead of calling Extract.
func (e *Extractor) Extract(img *image.RGBA) SignalVector {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := w * h
	if pixels == 0 {
		return SignalVector{}
	}

	var (
		totalVariance    float64
		colorVariance    float64
		smoothness       int
		edges            int
		perfectGradients int
		colorConsistency int
		artifacts        int
		freqAnomalies    int
		compression      int
	)

	pix := img.Pix
	var pr, pg, pb uint8
	for i := 0; i < pixels; i++ {
		off := i * 4
		r, g, bl := pix[off], pix[off+1], pix[off+2]

		// Deltas against the immediately preceding pixel in buffer order.
		if i > 0 {
			dr := absDiff(r, pr)
			dg := absDiff(g, pg)
			db := absDiff(bl, pb)

			totalVariance += float64(dr + dg + db)
			if dr < smoothnessDelta && dg < smoothnessDelta && db < smoothnessDelta {
				smoothness++
			}
			if dr > edgeDelta || dg > edgeDelta || db > edgeDelta {
				edges++
			}
			if dr == dg && dg == db && dr > 0 && dr < gradientMaxDelta {
				perfectGradients++
			}
			if g > 0 && bl > 0 &&
				nearInteger(float64(r)/float64(g)) &&
				nearInteger(float64(g)/float64(bl)) {
				colorConsistency++
			}
		}
		pr, pg, pb = r, g, bl

		// Per-pixel accumulators.
		colorVariance += float64(absDiff(r, g) + absDiff(g, bl) + absDiff(r, bl))
		if r == g && g == bl && (r%8 == 0 || r%5 == 0) {
			artifacts++
		}
		if r > nearWhiteLevel && g > nearWhiteLevel && bl > nearWhiteLevel &&
			absDiff(r, g) < nearWhiteDelta && absDiff(g, bl) < nearWhiteDelta {
			freqAnomalies++
		}
		if (r%16 == 0 || g%16 == 0 || bl%16 == 0) && int(r)+int(g)+int(bl) > compressionFloor {
			compression++
		}
	}

	n := float64(pixels)
	return SignalVector{
		AvgVariance:           totalVariance / n,
		AvgColorVariance:      colorVariance / n,
		SmoothnessRatio:       float64(smoothness) / n,
		EdgeRatio:             float64(edges) / n,
		PerfectGradientRatio:  float64(perfectGradients) / n,
		ColorConsistencyRatio: float64(colorConsistency) / n,
		SymmetryRatio:         e.symmetry(img, w, h, pixels),
		FrequencyAnomalyRatio: float64(freqAnomalies) / n,
		ArtifactRatio:         float64(artifacts) / n,
		CompressionRatio:      float64(compression) / n,
	}
}

// symmetry samples random point pairs mirrored across the vertical center
// axis and reports the fraction whose RGB distance is under the match
// threshold.
func (e *Extractor) symmetry(img *image.RGBA, w, h, pixels int) float64 {
	samples := pixels / 100
	if samples > maxSymmetrySample {
		samples = maxSymmetrySample
	}
	if samples <= 0 || w < 2 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	matches := 0
	for i := 0; i < samples; i++ {
		x := e.rnd.Intn(w / 2)
		y := e.rnd.Intn(h)
		mx := w - 1 - x

		lo := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
		ro := img.PixOffset(img.Bounds().Min.X+mx, img.Bounds().Min.Y+y)

		dr := float64(img.Pix[lo]) - float64(img.Pix[ro])
		dg := float64(img.Pix[lo+1]) - float64(img.Pix[ro+1])
		db := float64(img.Pix[lo+2]) - float64(img.Pix[ro+2])
		if math.Sqrt(dr*dr+dg*dg+db*db) < symmetryDistance {
			matches++
		}
	}
	return float64(matches) / float64(samples)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// nearInteger reports whether v is within the tolerance of a whole number.
func nearInteger(v float64) bool {
	return math.Abs(v-math.Round(v)) < ratioTolerance
}
