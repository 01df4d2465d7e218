package share

import "strings"

const (
	FragmentKey       = "sp2"
	LegacyFragmentKey = "sp"
)

// Fragment is a share payload found in a URL fragment.
type Fragment struct {
	Key     string
	Payload string
	Legacy  bool
}

// BuildFragment returns "#sp2=<payload>", or "#sp=<payload>" for the dense shape.
func BuildFragment(payload string, legacy bool) string {
	key := FragmentKey
	if legacy {
		key = LegacyFragmentKey
	}
	return "#" + key + "=" + payload
}

// BuildURL replaces any fragment of base with the share fragment.
func BuildURL(base, payload string, legacy bool) string {
	base, _, _ = strings.Cut(base, "#")
	return base + BuildFragment(payload, legacy)
}

// ExtractFragment finds a share payload in rawURL. rawURL may be a full URL or
// a bare fragment. The fragment may hold other "&"-separated parameters; sp2
// wins over sp when both are present. Malformed input reports false.
func ExtractFragment(rawURL string) (Fragment, bool) {
	fragment := rawURL
	if _, after, found := strings.Cut(rawURL, "#"); found {
		fragment = after
	}

	var legacy Fragment
	haveLegacy := false
	for _, param := range strings.Split(fragment, "&") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		value = strings.TrimRight(value, "=")
		if !isBase64URL(value) {
			continue
		}
		switch key {
		case FragmentKey:
			return Fragment{Key: key, Payload: value}, true
		case LegacyFragmentKey:
			if !haveLegacy {
				legacy = Fragment{Key: key, Payload: value, Legacy: true}
				haveLegacy = true
			}
		}
	}
	return legacy, haveLegacy
}

func isBase64URL(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
