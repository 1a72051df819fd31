package middleware

import "testing"

func TestValidateMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime string
		ok   bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"video/mp4", true},
		{"audio/wav", true},
		{"IMAGE/PNG", true},
		{" image/png ", true},
		{"application/pdf", false},
		{"text/html", false},
		{"", false},
	}

	for _, tc := range tests {
		err := ValidateMediaType(tc.mime)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateMediaType(%q) = %v, want ok=%v", tc.mime, err, tc.ok)
		}
	}
}

func TestValidateFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ok   bool
	}{
		{"photo.png", true},
		{"my clip (1).mp4", true},
		{"", false},
		{"   ", false},
		{"../etc/passwd", false},
		{"a/b.png", false},
		{`a\b.png`, false},
		{"bad\x01name.png", false},
	}

	for _, tc := range tests {
		err := ValidateFileName(tc.name)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateFileName(%q) = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestValidateTenantID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tenant string
		ok     bool
	}{
		{"acme", true},
		{"acme-prod_2", true},
		{"", false},
		{"has space", false},
		{"slash/y", false},
		{string(make([]byte, 65)), false},
	}

	for _, tc := range tests {
		err := ValidateTenantID(tc.tenant)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateTenantID(%q) = %v, want ok=%v", tc.tenant, err, tc.ok)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"nul\x00byte", "nulbyte"},
		{"ctrl\x07char", "ctrlchar"},
		{"keep\ttabs\nand newlines", "keep\ttabs\nand newlines"},
	}

	for _, tc := range tests {
		if got := SanitizeString(tc.in); got != tc.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want int }{
		{0, 20},
		{-5, 20},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, tc := range tests {
		if got := ValidateLimit(tc.in); got != tc.want {
			t.Errorf("ValidateLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestValidateDays(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want int }{
		{0, 7},
		{30, 30},
		{365, 365},
		{1000, 365},
	}
	for _, tc := range tests {
		if got := ValidateDays(tc.in); got != tc.want {
			t.Errorf("ValidateDays(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
