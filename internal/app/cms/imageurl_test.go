package cms

import (
	"testing"

	"go.uber.org/zap"
)

func TestImageURL(t *testing.T) {
	c := New("https://example.test", "proj", "production", "", nil, zap.NewNop())

	cases := []struct {
		ref  string
		want string
	}{
		{"image-abc123-1200x800-jpg", "https://cdn.sanity.io/images/proj/production/abc123-1200x800.jpg"},
		// Asset names may contain dashes.
		{"image-a1-b2-c3-640x480-png", "https://cdn.sanity.io/images/proj/production/a1-b2-c3-640x480.png"},
		// Malformed references resolve to empty.
		{"", ""},
		{"file-abc123-pdf", ""},
		{"image-abc123", ""},
		{"image-abc123-1200x800", ""},
		{"image-abc123-12oox800-jpg", ""},
		{"image--1200x800-jpg", ""},
	}
	for _, tc := range cases {
		if got := c.ImageURL(tc.ref); got != tc.want {
			t.Errorf("ImageURL(%q): got %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestImageURL_UnconfiguredProject(t *testing.T) {
	c := New("https://example.test", "", "", "", nil, zap.NewNop())
	if got := c.ImageURL("image-abc123-1200x800-jpg"); got != "" {
		t.Errorf("expected empty URL without project config, got %q", got)
	}
}
