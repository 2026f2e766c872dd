package fetch

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// decodeHTML converts an HTML body to UTF-8. The declared charset (header
// or meta prescan) wins; when nothing is declared, a statistical detector
// does better on real pages than the windows-1252 default.
func decodeHTML(body []byte, contentType string) string {
	enc, _, certain := charset.DetermineEncoding(body, contentType)
	if !certain {
		if best, err := chardet.NewHtmlDetector().DetectBest(body); err == nil {
			if detected, err := htmlindex.Get(strings.ToLower(best.Charset)); err == nil {
				enc = detected
			}
		}
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
