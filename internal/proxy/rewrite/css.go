package rewrite

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/miragebrowse/mirage/internal/proxy/urlx"
)

var (
	cssURLPattern    = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+?)(['"]?)\s*\)`)
	cssImportPattern = regexp.MustCompile(`@import\s+(['"])([^'"]+)(['"])`)
)

// RewriteCSS resolves url() references and bare @import strings in css
// against base. Covers both quoted and unquoted url() forms; @import
// url(...) is already handled by the url() pass.
func RewriteCSS(css string, base *url.URL) string {
	out := cssURLPattern.ReplaceAllStringFunc(css, func(m string) string {
		parts := cssURLPattern.FindStringSubmatch(m)
		if parts == nil {
			return m
		}
		ref := strings.TrimSpace(parts[2])
		return "url(" + parts[1] + urlx.Resolve(ref, base) + parts[3] + ")"
	})

	out = cssImportPattern.ReplaceAllStringFunc(out, func(m string) string {
		parts := cssImportPattern.FindStringSubmatch(m)
		if parts == nil {
			return m
		}
		return "@import " + parts[1] + urlx.Resolve(parts[2], base) + parts[3]
	})

	return out
}

// rewriteSrcset resolves each candidate URL in a srcset value, leaving
// width/density descriptors attached.
func rewriteSrcset(srcset string, base *url.URL) string {
	candidates := strings.Split(srcset, ",")
	for i, candidate := range candidates {
		fields := strings.Fields(candidate)
		if len(fields) == 0 {
			continue
		}
		fields[0] = urlx.Resolve(fields[0], base)
		candidates[i] = strings.Join(fields, " ")
	}
	return strings.Join(candidates, ", ")
}
