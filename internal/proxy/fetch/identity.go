package fetch

import (
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/miragebrowse/mirage/internal/proxy/urlx"
)

// userAgents is a small pool of current desktop browsers, rotated per
// request so repeated fetches don't present a single static fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

func pickUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// requestHeaders builds the header profile for a fetch class. Documents
// present as top-level navigations; resources present as subresource loads
// issued from a page on the target's own origin, so Referer and Origin are
// spoofed to the target to satisfy same-origin checks on CDNs.
func requestHeaders(class Class, target *url.URL, userAgent string) map[string]string {
	origin := urlx.Origin(target)

	h := map[string]string{
		"User-Agent":      userAgent,
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "identity",
	}

	switch class {
	case ClassResource:
		h["Accept"] = "*/*"
		h["Cache-Control"] = "no-cache"
		h["Sec-Fetch-Dest"] = "empty"
		h["Sec-Fetch-Mode"] = "cors"
		h["Sec-Fetch-Site"] = "cross-site"
		h["Referer"] = origin + "/"
		h["Origin"] = origin
	default:
		h["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
		h["Upgrade-Insecure-Requests"] = "1"
		h["Sec-Fetch-Dest"] = "document"
		h["Sec-Fetch-Mode"] = "navigate"
		h["Sec-Fetch-Site"] = "none"
	}

	// Client hints accompany Chromium user agents only.
	if strings.Contains(userAgent, "Chrome") {
		h["Sec-CH-UA"] = `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`
		h["Sec-CH-UA-Mobile"] = "?0"
		h["Sec-CH-UA-Platform"] = `"Windows"`
	}

	return h
}
