// Package strings holds small string and string-slice helpers shared across layers
package strings

import std "strings"

// MustPrefix normalizes a mount path to a single leading slash and no trailing
// slash. A blank or root path panics.
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Unique returns the non-blank items of in, trimmed, in first-appearance order.
// key decides identity; nil compares the trimmed strings as-is.
func Unique(in []string, key func(string) string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = std.TrimSpace(s)
		if s == "" {
			continue
		}
		k := s
		if key != nil {
			k = key(s)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Limit truncates in to at most n items. It never allocates.
func Limit[T any](in []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}

// ContainsFold reports whether sub appears in s ignoring case
func ContainsFold(s, sub string) bool {
	return std.Contains(std.ToLower(s), std.ToLower(sub))
}
