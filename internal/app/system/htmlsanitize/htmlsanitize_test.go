package htmlsanitize

import (
	"strings"
	"testing"
)

func TestPlainText_StripsAllMarkup(t *testing.T) {
	in := `<p>Great event!</p><script>alert("x")</script>`
	got := PlainText(in)

	if strings.Contains(got, "<") {
		t.Errorf("expected no tags, got %q", got)
	}
	if !strings.Contains(got, "Great event!") {
		t.Errorf("text content should survive, got %q", got)
	}
	if strings.Contains(got, "alert") {
		t.Errorf("script body should be dropped, got %q", got)
	}
}

func TestRichText_KeepsFormattingDropsScripts(t *testing.T) {
	in := `<p>Hello <strong>world</strong></p><script>alert("x")</script><img src="x" onerror="evil()">`
	got := RichText(in)

	if !strings.Contains(got, "<strong>world</strong>") {
		t.Errorf("basic formatting should survive, got %q", got)
	}
	if strings.Contains(got, "script") || strings.Contains(got, "onerror") {
		t.Errorf("active content should be stripped, got %q", got)
	}
}
