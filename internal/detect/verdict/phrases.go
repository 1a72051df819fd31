package verdict

// fakePhrases signal manipulation in free-form answers. Matching is
// case-insensitive substring counting.
var fakePhrases = []string{
	"clearly artificial",
	"deepfake",
	"stylegan",
	"diffusion",
	"ai-generated",
	"ai generated",
	"synthetic face",
	"synthetically generated",
	"computer-generated",
	"computer generated",
	"face swap",
	"faceswap",
	"digitally manipulated",
	"digitally altered",
	"manipulation artifacts",
	"generation artifacts",
	"warping artifacts",
	"blending artifacts",
	"uncanny",
	"midjourney",
	"stable diffusion",
	"dall-e",
	"neural rendering",
	"fabricated",
}

// authenticPhrases signal a genuine capture.
var authenticPhrases = []string{
	"appears authentic",
	"appears genuine",
	"natural photograph",
	"real photograph",
	"no signs of manipulation",
	"no evidence of manipulation",
	"no manipulation detected",
	"consistent lighting",
	"natural skin texture",
	"natural imperfections",
	"camera noise",
	"unaltered",
}
