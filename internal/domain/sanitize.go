package domain

import (
	"strconv"
	"strings"
)

// Inclusive code point range replaced by EscapeHTMLEntities, in addition to
// '<', '>' and '&'. The upper bound is 0x9999 exactly; do not widen it.
const (
	escapeRangeLow  = 0x00A0
	escapeRangeHigh = 0x9999
)

// EscapeHTMLEntities replaces every rune in [U+00A0, U+9999] and every '<',
// '>' and '&' with its decimal numeric character reference (&#NNN;).
// All other runes pass through unchanged. The transform is not idempotent:
// applying it to its own output escapes the '&' of each reference again.
func EscapeHTMLEntities(s string) string {
	if !needsEscape(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/2)
	for _, r := range s {
		if !escapable(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString("&#")
		b.WriteString(strconv.Itoa(int(r)))
		b.WriteByte(';')
	}
	return b.String()
}

func escapable(r rune) bool {
	switch r {
	case '<', '>', '&':
		return true
	}
	return r >= escapeRangeLow && r <= escapeRangeHigh
}

func needsEscape(s string) bool {
	for _, r := range s {
		if escapable(r) {
			return true
		}
	}
	return false
}
