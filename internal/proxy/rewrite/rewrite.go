package rewrite

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/miragebrowse/mirage/internal/logging"
	"github.com/miragebrowse/mirage/internal/proxy/shim"
	"github.com/miragebrowse/mirage/internal/proxy/urlx"
)

// securityMetaEquiv lists http-equiv values that would prevent the page
// from being embedded or executed under the proxy's origin.
var securityMetaEquiv = map[string]struct{}{
	"content-security-policy": {},
	"x-frame-options":         {},
	"x-content-type-options":  {},
	"x-xss-protection":        {},
	"referrer-policy":         {},
}

// resourceHintRels reference origins the proxy cannot service consistently.
var resourceHintRels = map[string]struct{}{
	"preconnect":    {},
	"dns-prefetch":  {},
	"preload":       {},
	"prefetch":      {},
	"modulepreload": {},
}

// urlAttrs are rewritten on every element carrying them.
var urlAttrs = []string{"src", "href", "poster", "action", "data"}

// strippedAttrs would fail or leak once content is rewritten and relocated.
var strippedAttrs = []string{"integrity", "crossorigin", "nonce"}

// frameCSS makes documents render edge-to-edge inside the host frame.
const frameCSS = `<style>html,body{margin:0 !important;padding:0 !important;min-height:100vh}</style>`

// Rewriter transforms fetched HTML documents.
type Rewriter struct {
	logger *logging.Logger
}

// New creates a rewriter.
func New(logger *logging.Logger) *Rewriter {
	return &Rewriter{logger: logger}
}

// Rewrite returns rawHTML with all references relocated through the proxy
// and the runtime shim injected. It never fails: inputs that cannot be
// parsed or re-serialized fall back to raw shim injection.
func (r *Rewriter) Rewrite(rawHTML string, target *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		r.logger.Warn("html parse failed, appending shim to raw document",
			zap.String("target", target.String()), zap.Error(err))
		return appendShim(rawHTML, target)
	}

	r.stripSecurityMeta(doc)
	r.injectBase(doc, target)
	r.rewriteAttributes(doc, target)
	r.rewriteSrcsets(doc, target)
	r.rewriteStyles(doc, target)
	r.stripUnsafeAttributes(doc)
	r.stripResourceHints(doc)
	r.injectShim(doc, target)

	out, err := doc.Html()
	if err != nil {
		r.logger.Warn("html render failed, appending shim to raw document",
			zap.String("target", target.String()), zap.Error(err))
		return appendShim(rawHTML, target)
	}
	return out
}

func (r *Rewriter) stripSecurityMeta(doc *goquery.Document) {
	doc.Find("meta[http-equiv]").Each(func(_ int, s *goquery.Selection) {
		equiv, _ := s.Attr("http-equiv")
		if _, hit := securityMetaEquiv[strings.ToLower(equiv)]; hit {
			s.Remove()
		}
	})
}

// injectBase installs a base element pointing at the target origin so the
// browser's own relative resolution backstops anything the rewriter missed.
func (r *Rewriter) injectBase(doc *goquery.Document, target *url.URL) {
	doc.Find("base").Remove()
	doc.Find("head").First().PrependHtml(`<base href="` + urlx.Origin(target) + `/">`)
}

func (r *Rewriter) rewriteAttributes(doc *goquery.Document, target *url.URL) {
	for _, attr := range urlAttrs {
		attr := attr
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			if goquery.NodeName(s) == "base" {
				return
			}
			val, _ := s.Attr(attr)
			if resolved := urlx.Resolve(val, target); resolved != val {
				s.SetAttr(attr, resolved)
			}
		})
	}
}

func (r *Rewriter) rewriteSrcsets(doc *goquery.Document, target *url.URL) {
	for _, attr := range []string{"srcset", "data-srcset"} {
		attr := attr
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			val, _ := s.Attr(attr)
			if val == "" {
				return
			}
			s.SetAttr(attr, rewriteSrcset(val, target))
		})
	}
}

func (r *Rewriter) rewriteStyles(doc *goquery.Document, target *url.URL) {
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		// style is a raw-text element: entities are never decoded on render,
		// so the text node is written directly instead of through SetText.
		rewritten := RewriteCSS(s.Text(), target)
		for _, node := range s.Nodes {
			if node.FirstChild != nil && node.FirstChild.Type == html.TextNode {
				node.FirstChild.Data = rewritten
			}
		}
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		val, _ := s.Attr("style")
		if strings.Contains(val, "url(") {
			s.SetAttr("style", RewriteCSS(val, target))
		}
	})
}

func (r *Rewriter) stripUnsafeAttributes(doc *goquery.Document) {
	for _, attr := range strippedAttrs {
		doc.Find("[" + attr + "]").RemoveAttr(attr)
	}
}

func (r *Rewriter) stripResourceHints(doc *goquery.Document) {
	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		for _, token := range strings.Fields(strings.ToLower(rel)) {
			if _, hit := resourceHintRels[token]; hit {
				s.Remove()
				return
			}
		}
	})
}

// injectShim places the runtime shim at the end of head, falling back to
// the top of body, then to the document root.
func (r *Rewriter) injectShim(doc *goquery.Document, target *url.URL) {
	markup := shimMarkup(target)
	if markup == "" {
		return
	}

	if head := doc.Find("head").First(); head.Length() > 0 {
		head.AppendHtml(markup)
		return
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		body.PrependHtml(markup)
		return
	}
	doc.Selection.Find("html").PrependHtml(markup)
}

func shimMarkup(target *url.URL) string {
	tag, err := shim.ScriptTag(shim.ConfigFor(target))
	if err != nil {
		return ""
	}
	return frameCSS + tag
}

func appendShim(rawHTML string, target *url.URL) string {
	return rawHTML + shimMarkup(target)
}
