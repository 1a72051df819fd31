package verdict

import (
	"regexp"
	"strconv"
	"strings"
)

// Free-form contract: the prompt asks for prose plus optional
// CONFIDENCE_SCORE and FINAL_VERDICT markers. Precedence is load-bearing:
// explicit verdict markers beat phrase counting, phrase counting beats the
// bare numeric threshold.
var (
	scoreRe        = regexp.MustCompile(`(?i)CONFIDENCE_SCORE:\s*(\d{1,3})`)
	finalVerdictRe = regexp.MustCompile(`(?i)FINAL_VERDICT:\s*(AUTHENTIC|DEEPFAKE|UNCERTAIN)`)
)

const (
	authenticFloor     = 75
	deepfakeCap        = 30
	uncertainThreshold = 65
	defaultThreshold   = 60
	bothPresentCap     = 40
	authenticOnlyFloor = 80
)

// FreeformParser reads prose answers, reconciling explicit verdict markers
// with phrase-count heuristics.
type FreeformParser struct{}

func (FreeformParser) Name() string { return "freeform" }

func (FreeformParser) Parse(raw string) Verdict {
	lower := strings.ToLower(raw)

	confidence := 50.0
	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			confidence = float64(n)
		}
	}

	fakeCount := countPhrases(lower, fakePhrases)
	authCount := countPhrases(lower, authenticPhrases)

	var isDeepfake bool
	switch finalVerdict(raw) {
	case "AUTHENTIC":
		isDeepfake = false
		if confidence < authenticFloor {
			confidence = authenticFloor
		}
	case "DEEPFAKE":
		isDeepfake = true
		if confidence > deepfakeCap {
			confidence = deepfakeCap
		}
	case "UNCERTAIN":
		if fakeCount > 0 && authCount == 0 {
			isDeepfake = true
			if confidence > deepfakeCap {
				confidence = deepfakeCap
			}
		} else {
			isDeepfake = confidence < uncertainThreshold
		}
	default:
		switch {
		case fakeCount > 0 && authCount == 0:
			isDeepfake = true
			if limit := float64(25 + 5*fakeCount); confidence > limit {
				confidence = limit
			}
		case authCount > 1 && fakeCount == 0:
			isDeepfake = false
			if confidence < authenticOnlyFloor {
				confidence = authenticOnlyFloor
			}
		case fakeCount > 0 && authCount > 0:
			isDeepfake = true
			if confidence > bothPresentCap {
				confidence = bothPresentCap
			}
		default:
			isDeepfake = confidence < defaultThreshold
		}
	}

	return Verdict{
		IsDeepfake:  isDeepfake,
		Confidence:  clamp(confidence, 10, 95),
		Explanation: strings.TrimSpace(raw),
	}
}

func finalVerdict(raw string) string {
	if m := finalVerdictRe.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

func countPhrases(lower string, phrases []string) int {
	count := 0
	for _, p := range phrases {
		count += strings.Count(lower, p)
	}
	return count
}
