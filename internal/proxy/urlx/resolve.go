package urlx

import (
	"net/url"
	"strings"
)

// passthroughPrefixes are references the rewriter must leave untouched:
// inline payloads, script pseudo-URLs and non-navigational schemes.
var passthroughPrefixes = []string{
	"data:",
	"blob:",
	"javascript:",
	"mailto:",
	"tel:",
	"about:",
}

// IsPassthrough reports whether candidate should be left unresolved.
func IsPassthrough(candidate string) bool {
	if candidate == "" || strings.HasPrefix(candidate, "#") {
		return true
	}
	lower := strings.ToLower(candidate)
	for _, prefix := range passthroughPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Origin returns scheme://host (including any port) for base.
func Origin(base *url.URL) string {
	return base.Scheme + "://" + base.Host
}

// Resolve turns candidate into an absolute URL relative to the document
// base. Inputs matched by IsPassthrough and already-absolute http(s) URLs
// are returned unchanged; unparseable candidates are returned as-is rather
// than dropped, since rewriting is best-effort.
func Resolve(candidate string, base *url.URL) string {
	if IsPassthrough(candidate) {
		return candidate
	}

	lower := strings.ToLower(candidate)
	switch {
	case strings.HasPrefix(candidate, "//"):
		return base.Scheme + ":" + candidate
	case strings.HasPrefix(candidate, "/"):
		return Origin(base) + candidate
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return candidate
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return candidate
	}
	return base.ResolveReference(ref).String()
}
