package verdict

import (
	"regexp"
	"strconv"
	"strings"
)

// Marker-form contract: the prompt asks the model for
//
//	RESULT: REAL|FAKE
//	CONFIDENCE: <int 1-100>
//	EXPLANATION: <text>
//
// Any marker may be missing. A missing RESULT reads as UNKNOWN which maps
// to not-fake: the fail-open default is deliberate and covered by tests.
var (
	resultRe      = regexp.MustCompile(`(?im)^\s*RESULT:\s*(REAL|FAKE|UNKNOWN)`)
	confidenceRe  = regexp.MustCompile(`(?im)^\s*CONFIDENCE:\s*(\d{1,3})`)
	explanationRe = regexp.MustCompile(`(?im)^\s*EXPLANATION:\s*(.+)$`)
)

// MarkerParser reads the structured marker response shape.
type MarkerParser struct{}

func (MarkerParser) Name() string { return "marker" }

func (MarkerParser) Parse(raw string) Verdict {
	result := "UNKNOWN"
	if m := resultRe.FindStringSubmatch(raw); m != nil {
		result = strings.ToUpper(m[1])
	}

	confidence := 50.0
	if m := confidenceRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			confidence = clamp(float64(n), 0, 100)
		}
	}

	explanation := strings.TrimSpace(raw)
	if m := explanationRe.FindStringSubmatch(raw); m != nil {
		explanation = strings.TrimSpace(m[1])
	}

	return Verdict{
		IsDeepfake:  result == "FAKE",
		Confidence:  confidence,
		Explanation: explanation,
	}
}
