package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/miragebrowse/mirage/internal/config"
	"github.com/miragebrowse/mirage/internal/logging"
	"github.com/miragebrowse/mirage/internal/proxy/session"
)

// ErrTimeout reports that the upstream did not respond within the deadline
// for its fetch class.
var ErrTimeout = errors.New("upstream request timed out")

// Class selects the header profile and deadline for a fetch.
type Class int

const (
	// ClassDocument is a top-level page load.
	ClassDocument Class = iota
	// ClassResource is a subresource load (image, script, stylesheet).
	ClassResource
)

// Result carries an upstream response back to the caller. Upstream error
// statuses are results, not errors: the status passes through to the client.
type Result struct {
	Body        []byte
	HTML        string // UTF-8 decoded body, set only when IsHTML
	Status      int
	ContentType string
	IsHTML      bool
	SetCookies  []session.Cookie
	UserAgent   string
}

// Fetcher executes outbound requests with per-class deadlines and a
// rotating browser identity.
type Fetcher struct {
	client *resty.Client
	cfg    config.UpstreamConfig
	logger *logging.Logger
}

// New creates a fetcher. The transport comes from retryablehttp with
// retries disabled: the endpoint surfaces upstream failures immediately
// rather than masking them behind retries.
func New(cfg config.UpstreamConfig, logger *logging.Logger) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	// No transport-level cookie jar: the session store is the only place
	// cookies live, keyed by session and hostname. resty's default jar
	// would replay cookies across unrelated sessions.
	client := resty.New().
		SetTransport(retryClient.HTTPClient.Transport).
		SetCookieJar(nil)

	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch retrieves target with the identity and deadline of the given class.
// cookieHeader, when non-empty, is replayed verbatim as the Cookie header.
func (f *Fetcher) Fetch(ctx context.Context, target *url.URL, class Class, cookieHeader string) (*Result, error) {
	deadline := f.cfg.DocumentTimeout
	if class == ClassResource {
		deadline = f.cfg.ResourceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	userAgent := pickUserAgent()
	req := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeaders(requestHeaders(class, target, userAgent))
	if cookieHeader != "" {
		req.SetHeader("Cookie", cookieHeader)
	}

	start := time.Now()
	resp, err := req.Get(target.String())
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("fetching %s: %w", target, ErrTimeout)
		}
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}

	raw := resp.RawBody()
	defer raw.Close()

	body, err := io.ReadAll(io.LimitReader(raw, f.cfg.MaxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("reading %s: %w", target, ErrTimeout)
		}
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}

	contentType, isHTML := classify(resp.Header().Get("Content-Type"), body)

	result := &Result{
		Body:        body,
		Status:      resp.StatusCode(),
		ContentType: contentType,
		IsHTML:      isHTML,
		SetCookies:  session.ParseSetCookies(resp.Header().Values("Set-Cookie")),
		UserAgent:   userAgent,
	}
	if isHTML {
		result.HTML = decodeHTML(body, contentType)
	}

	f.logger.Debug("upstream fetch completed",
		zap.String("url", target.String()),
		zap.Int("status", result.Status),
		zap.Int("size", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// classify determines whether body is an HTML document. The declared
// Content-Type is trusted when present; missing or generic types fall back
// to content sniffing.
func classify(contentType string, body []byte) (string, bool) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/html"), strings.Contains(ct, "application/xhtml"):
		return contentType, true
	case contentType == "", strings.Contains(ct, "application/octet-stream"):
		detected := mimetype.Detect(body)
		if detected.Is("text/html") {
			return detected.String(), true
		}
		if contentType == "" {
			return detected.String(), false
		}
	}
	return contentType, false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "context deadline exceeded")
}
