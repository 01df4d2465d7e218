package prefs

import (
	"net/url"
	"strings"
)

// Normalize is the cross-document identity key for titles and direction text.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeURL lower-cases scheme and host and strips trailing slashes.
// Unparseable input is only trimmed.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.TrimRight(trimmed, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return strings.TrimRight(u.String(), "/")
}

// Clamp bounds a rating to [MinRating, MaxRating].
func Clamp(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}

type sourceKey struct {
	label string
	url   string
}

func keyOf(s Source) sourceKey {
	return sourceKey{label: strings.TrimSpace(s.Label), url: NormalizeURL(s.URL)}
}

// SameSource reports whether two sources de-duplicate to one.
func SameSource(a, b Source) bool {
	return keyOf(a) == keyOf(b)
}

// UnionSources appends the sources of b not already in a, preserving order.
// A limit <= 0 means unlimited.
func UnionSources(a, b []Source, limit int) []Source {
	out := make([]Source, 0, len(a)+len(b))
	seen := make(map[sourceKey]struct{}, len(a)+len(b))
	for _, list := range [][]Source{a, b} {
		for _, source := range list {
			key := keyOf(source)
			if _, exists := seen[key]; exists {
				continue
			}
			if limit > 0 && len(out) >= limit {
				return out
			}
			seen[key] = struct{}{}
			out = append(out, source)
		}
	}
	return out
}

// UnionStrings merges two id or tag lists, dropping exact duplicates and blanks.
func UnionStrings(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, value := range list {
			if strings.TrimSpace(value) == "" {
				continue
			}
			if _, exists := seen[value]; exists {
				continue
			}
			seen[value] = struct{}{}
			out = append(out, value)
		}
	}
	return out
}
