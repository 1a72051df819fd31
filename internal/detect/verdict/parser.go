package verdict

import "fmt"

// Verdict is the structured reading of one free-text model answer before
// sub-score expansion.
type Verdict struct {
	IsDeepfake  bool
	Confidence  float64
	Explanation string
}

// Strategy turns unreliable model text into a bounded verdict. Parsing is
// total: any input, including garbage, produces a verdict rather than an
// error. The two strategies coexist because different engine revisions
// use different response contracts and threshold tables.
type Strategy interface {
	Name() string
	Parse(raw string) Verdict
}

// Select resolves a configured strategy name.
func Select(name string) (Strategy, error) {
	switch name {
	case "marker", "":
		return MarkerParser{}, nil
	case "freeform":
		return FreeformParser{}, nil
	default:
		return nil, fmt.Errorf("unknown parser strategy: %s (allowed: marker, freeform)", name)
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
