package core

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Slugify builds a URL-friendly key from a display name.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalizer maps raw identifiers taken from URL paths onto canonical keys.
type Normalizer struct {
	aliases map[string]string
	known   map[string]struct{}
}

func newNormalizer(aliases map[string]string, known []string) *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]string, len(aliases)),
		known:   make(map[string]struct{}, len(known)),
	}
	for raw, target := range aliases {
		n.aliases[raw] = target
	}
	for _, k := range known {
		n.known[k] = struct{}{}
	}
	return n
}

// Normalize returns the canonical key for raw. Identifiers that match
// nothing, even after cleanup, come back unchanged.
func (n *Normalizer) Normalize(raw string) ProductKey {
	if key, ok := n.lookup(raw); ok {
		return ProductKey(key)
	}
	return ProductKey(raw)
}

// Known reports whether key is a canonical key.
func (n *Normalizer) Known(key string) bool {
	_, ok := n.known[key]
	return ok
}

func (n *Normalizer) lookup(raw string) (string, bool) {
	for _, candidate := range variants(raw) {
		if target, ok := n.aliases[candidate]; ok {
			return target, true
		}
		if _, ok := n.known[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

// variants lists raw followed by progressively cleaned forms of it, without
// duplicates. The input may or may not be percent-encoded.
func variants(raw string) []string {
	out := []string{raw}
	seen := map[string]bool{raw: true}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	s := raw
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
		add(s)
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
		add(s)
	}
	s = strings.TrimRight(s, "/")
	s = strings.TrimSpace(s)
	add(s)
	s = strings.ToLower(s)
	add(s)
	add(spaceRun.ReplaceAllString(s, "-"))
	add(strings.ReplaceAll(s, "-", " "))
	return out
}
