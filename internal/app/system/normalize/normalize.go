// internal/app/system/normalize/normalize.go

// Package normalize cleans user-entered identity fields before storage so
// lookups and uniqueness checks behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address. Storage and lookups must both
// go through this so the unique index on email actually holds.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name collapses internal runs of whitespace and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Phone strips spaces, dashes, and parentheses from a contact number,
// keeping a leading + if present.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
