package prompt

import "fmt"

// Marker returns the prompt for the structured marker response contract.
func Marker(fileName, mimeType string) string {
	return fmt.Sprintf(`You are a forensic media analyst. Examine the attached media (%s, %s) for signs of deepfake manipulation or synthetic generation.

Respond with exactly these three lines and nothing else:
RESULT: REAL or FAKE
CONFIDENCE: an integer from 1 to 100
EXPLANATION: one short sentence describing the decisive evidence`, fileName, mimeType)
}

// Freeform returns the prompt for the prose response contract.
func Freeform(fileName, mimeType string) string {
	return fmt.Sprintf(`You are a forensic media analyst. Examine the attached media (%s, %s) for signs of deepfake manipulation or synthetic generation.

Describe what you observe: lighting consistency, skin texture, edge artifacts, temporal coherence, audio-visual sync. Then finish with two lines:
CONFIDENCE_SCORE: an integer from 1 to 100, where higher means more likely authentic
FINAL_VERDICT: AUTHENTIC, DEEPFAKE, or UNCERTAIN`, fileName, mimeType)
}
