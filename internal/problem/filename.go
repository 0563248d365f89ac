package problem

import (
	"strings"
	"unicode"
)

// DefaultBaseName is used when no generation parameters exist, e.g. after
// importing a file straight into an empty session.
const DefaultBaseName = "AI_Math"

// Sanitize makes s safe to use as a file name stem. Every rune that is not
// an ASCII letter or digit, a Hangul syllable, whitespace or a hyphen is
// removed; runs of whitespace and slashes collapse into one underscore.
func Sanitize(s string) string {
	var kept strings.Builder
	for _, r := range s {
		if keepRune(r) {
			kept.WriteRune(r)
		}
	}

	var b strings.Builder
	inRun := false
	for _, r := range kept.String() {
		if unicode.IsSpace(r) || r == '/' {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= '가' && r <= '힣':
		return true
	case r == '-', unicode.IsSpace(r):
		return true
	}
	return false
}
