package pixel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bep/imagemeta"
)

// wantedTags lists the EXIF fields surfaced as display metadata on a job.
// The summary never feeds the scorer.
var wantedTags = map[string]bool{
	"Make":             true,
	"Model":            true,
	"Software":         true,
	"DateTimeOriginal": true,
}

// DescribeMetadata extracts a short camera/software summary from raw image
// bytes for display next to the verdict. Returns "" on any failure:
// metadata is advisory and parsing errors are never surfaced.
func DescribeMetadata(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	fields := map[string]string{}
	err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return wantedTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if s := strings.TrimSpace(fmt.Sprint(ti.Value)); s != "" {
				fields[ti.Tag] = s
			}
			return nil
		},
	})
	if err != nil || len(fields) == 0 {
		return ""
	}

	parts := make([]string, 0, len(wantedTags))
	for _, tag := range []string{"Make", "Model", "Software", "DateTimeOriginal"} {
		if v, ok := fields[tag]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", strings.ToLower(tag), v))
		}
	}
	return strings.Join(parts, " ")
}
