package pixel

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/draw"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/verilens/verilens/internal/domain/analysis"
)

// Engine is the local decision engine for still images: decode, extract
// signals, score. It never returns an error; undecodable input yields the
// neutral fallback result.
type Engine struct {
	extractor *Extractor
	scorer    *Scorer
	cache     *resultCache
	log       *slog.Logger
}

func NewEngine(extractor *Extractor, scorer *Scorer, log *slog.Logger) *Engine {
	return &Engine{
		extractor: extractor,
		scorer:    scorer,
		cache:     newResultCache(128),
		log:       log,
	}
}

// Analyze decodes the media and scores its pixel buffer. Resubmitted bytes
// reuse the previous verdict via an average-hash cache; an exact checksum
// guards against perceptual collisions between distinct images.
func (e *Engine) Analyze(_ context.Context, m analysis.Media) (analysis.ScoreResult, error) {
	img, _, err := image.Decode(bytes.NewReader(m.Bytes))
	if err != nil {
		e.log.Warn("image decode failed, using neutral result", "file", m.Name, "error", err)
		return analysis.NeutralResult(), nil
	}

	// Hash before scoring so resubmitted bytes skip the pixel pass.
	// Hashing failure degrades to a plain scoring run.
	sum := contentSum(m.Bytes)
	var key uint64
	var cacheable bool
	if hash, herr := goimagehash.AverageHash(img); herr == nil {
		key = hash.GetHash()
		cacheable = true
		if res, ok := e.cache.get(key, sum); ok {
			return res, nil
		}
	}

	res := e.scorer.Result(e.extractor.Extract(toRGBA(img)))
	if cacheable {
		e.cache.put(key, sum, res)
	}
	return res, nil
}

func contentSum(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

// toRGBA normalizes any decoded image into a contiguous RGBA buffer so the
// extractor can walk Pix directly.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
