package domain

import "strings"

// Pattern is a user filter expressed as a path prefix. It matches a path
// P iff the pattern is empty, equals P, or is an ancestor directory of P.
type Pattern struct {
	value string
}

// NewPattern wraps a raw pattern string.
func NewPattern(value string) Pattern {
	return Pattern{value: value}
}

// Empty reports whether the pattern matches every path.
func (p Pattern) Empty() bool {
	return p.value == ""
}

// String returns the raw pattern value.
func (p Pattern) String() string {
	return p.value
}

// Matches reports whether path satisfies the pattern.
func (p Pattern) Matches(path string) bool {
	if p.value == "" {
		return true
	}
	if path == p.value {
		return true
	}
	prefix := strings.TrimRight(p.value, "/") + "/"
	return strings.HasPrefix(path, prefix)
}
