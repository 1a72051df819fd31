package verdict

import "testing"

func TestMarkerParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		raw             string
		wantFake        bool
		wantConfidence  float64
		wantExplanation string
	}{
		{
			name:            "full fake response",
			raw:             "RESULT: FAKE\nCONFIDENCE: 80\nEXPLANATION: warped ear geometry",
			wantFake:        true,
			wantConfidence:  80,
			wantExplanation: "warped ear geometry",
		},
		{
			name:            "full real response",
			raw:             "RESULT: REAL\nCONFIDENCE: 92\nEXPLANATION: consistent sensor noise",
			wantFake:        false,
			wantConfidence:  92,
			wantExplanation: "consistent sensor noise",
		},
		{
			name:            "lowercase markers",
			raw:             "result: fake\nconfidence: 70\nexplanation: blended hairline",
			wantFake:        true,
			wantConfidence:  70,
			wantExplanation: "blended hairline",
		},
		{
			name:            "explicit unknown reads as not fake",
			raw:             "RESULT: UNKNOWN\nCONFIDENCE: 33\nEXPLANATION: too blurry to judge",
			wantFake:        false,
			wantConfidence:  33,
			wantExplanation: "too blurry to judge",
		},
		{
			name:            "missing result marker fails open",
			raw:             "CONFIDENCE: 99\nEXPLANATION: model refused to answer",
			wantFake:        false,
			wantConfidence:  99,
			wantExplanation: "model refused to answer",
		},
		{
			name:            "no markers at all",
			raw:             "  I am not able to analyze this file.  ",
			wantFake:        false,
			wantConfidence:  50,
			wantExplanation: "I am not able to analyze this file.",
		},
		{
			name:            "confidence above range is clamped",
			raw:             "RESULT: FAKE\nCONFIDENCE: 250\nEXPLANATION: x",
			wantFake:        true,
			wantConfidence:  100,
			wantExplanation: "x",
		},
		{
			name:            "leading whitespace before markers",
			raw:             "  RESULT: FAKE\n  CONFIDENCE: 61\n  EXPLANATION: duplicated earrings",
			wantFake:        true,
			wantConfidence:  61,
			wantExplanation: "duplicated earrings",
		},
		{
			name:            "markers after preamble lines",
			raw:             "Here is my analysis.\nRESULT: REAL\nCONFIDENCE: 88\nEXPLANATION: natural grain",
			wantFake:        false,
			wantConfidence:  88,
			wantExplanation: "natural grain",
		},
	}

	var p MarkerParser
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := p.Parse(tc.raw)
			if got.IsDeepfake != tc.wantFake {
				t.Errorf("IsDeepfake = %v, want %v", got.IsDeepfake, tc.wantFake)
			}
			if got.Confidence != tc.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tc.wantConfidence)
			}
			if got.Explanation != tc.wantExplanation {
				t.Errorf("Explanation = %q, want %q", got.Explanation, tc.wantExplanation)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	if s, err := Select(""); err != nil || s.Name() != "marker" {
		t.Errorf("Select(\"\") = %v, %v; want marker parser", s, err)
	}
	if s, err := Select("marker"); err != nil || s.Name() != "marker" {
		t.Errorf("Select(marker) = %v, %v; want marker parser", s, err)
	}
	if s, err := Select("freeform"); err != nil || s.Name() != "freeform" {
		t.Errorf("Select(freeform) = %v, %v; want freeform parser", s, err)
	}
	if _, err := Select("bogus"); err == nil {
		t.Error("Select(bogus) succeeded, want error")
	}
}
