package mirror

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a mirror URL for equality checks: scheme and
// host are lowercased, trailing slashes are dropped, and query/fragment are
// ignored. The same rule applies to every adapter so that
// "https://mirrors.x.com/simple" and "https://mirrors.x.com/simple/" compare
// equal.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Not parseable as an absolute URL; fall back to a plain trim.
		return strings.TrimRight(raw, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// SameURL reports whether two mirror URLs are equivalent after normalization.
func SameURL(a, b string) bool {
	return NormalizeURL(a) == NormalizeURL(b)
}

// MatchCatalog resolves a current URL against a catalog, returning the name
// of the matching entry. An empty name means the URL is a custom mirror.
func MatchCatalog(currentURL string, catalog []Mirror) string {
	for _, m := range catalog {
		if SameURL(m.URL, currentURL) {
			return m.Name
		}
	}
	return ""
}

// Host extracts the host portion of a mirror URL, used for directives like
// pip's trusted-host.
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err == nil && u.Host != "" {
		return u.Hostname()
	}
	// Tolerate scheme-less values.
	rest := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// ProbeURL strips installer-specific prefixes ("sparse+", "git+") and
// comma-separated fallback lists (GOPROXY style) down to the first plain
// HTTP URL suitable for a latency probe.
func ProbeURL(raw string) string {
	s := strings.TrimPrefix(raw, "sparse+")
	s = strings.TrimPrefix(s, "git+")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
