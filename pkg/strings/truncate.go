package strings

import (
	"strings"
)

// DescriptionMaxLen is the width of the description column in plan output.
const DescriptionMaxLen = 48

// OutputMaxLen bounds captured command output kept in logs.
const OutputMaxLen = 4096

const ellipsis = "..."

// SingleLine collapses every run of whitespace, newlines included, into a
// single space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most maxLen runes, ending in "..." when cut.
// A maxLen too small to hold any content plus the ellipsis is raised to
// len(ellipsis)+1.
func Truncate(s string, maxLen int) string {
	if maxLen <= len(ellipsis) {
		maxLen = len(ellipsis) + 1
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
