// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize wraps the bluemonday policies used for user- and
// CMS-supplied text. Everything a member or the CMS can type passes through
// here before storage or render.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	// strict strips all markup; used for feedback and other free-text
	// member input.
	strict = bluemonday.StrictPolicy()

	// rich allows the basic formatting the CMS editor produces.
	rich = bluemonday.UGCPolicy()
)

// PlainText strips every tag, leaving text content only.
func PlainText(s string) string {
	return strict.Sanitize(s)
}

// RichText keeps common user-generated-content formatting (links, lists,
// emphasis) and strips everything else.
func RichText(s string) string {
	return rich.Sanitize(s)
}
