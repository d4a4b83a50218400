package app

import "strings"

// originAllowed reports whether a request origin matches any configured
// pattern. Patterns match an exact host, a "*.example.com" subdomain
// wildcard, or a "localhost:*" port wildcard.
func originAllowed(patterns []string, origin string) bool {
	host := originHost(origin)
	for _, p := range patterns {
		if hostMatches(p, host) {
			return true
		}
	}
	return false
}

// originHost strips the scheme from an Origin header value. Origins carry
// no path, so everything after "://" is the host.
func originHost(origin string) string {
	if i := strings.Index(origin, "://"); i >= 0 {
		return origin[i+3:]
	}
	return origin
}

func hostMatches(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
