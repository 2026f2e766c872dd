package proxy

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/miragebrowse/mirage/internal/infrastructure/monitoring"
	"github.com/miragebrowse/mirage/internal/logging"
	"github.com/miragebrowse/mirage/internal/proxy/analytics"
	"github.com/miragebrowse/mirage/internal/proxy/fetch"
	"github.com/miragebrowse/mirage/internal/proxy/policy"
	"github.com/miragebrowse/mirage/internal/proxy/rewrite"
	"github.com/miragebrowse/mirage/internal/proxy/session"
)

// blockedPrefixes are refused before URL parsing so malformed variants of
// dangerous schemes still get the protocol error rather than a parse error.
var blockedPrefixes = []string{"javascript:", "file:", "data:", "blob:"}

// Service runs the proxy pipeline.
type Service struct {
	gate     *policy.Gate
	fetcher  *fetch.Fetcher
	rewriter *rewrite.Rewriter
	sessions *session.Store
	recorder analytics.Recorder
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewService wires the pipeline stages together. recorder and metrics may
// be nil, in which case analytics and instrumentation are skipped.
func NewService(
	gate *policy.Gate,
	fetcher *fetch.Fetcher,
	rewriter *rewrite.Rewriter,
	sessions *session.Store,
	recorder analytics.Recorder,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Service {
	return &Service{
		gate:     gate,
		fetcher:  fetcher,
		rewriter: rewriter,
		sessions: sessions,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle runs one request through the pipeline. Failures come back as
// *Error; clientUserAgent is the caller's own UA, recorded for analytics
// and never sent upstream.
func (s *Service) Handle(ctx context.Context, req Request, clientUserAgent string) (*Response, error) {
	start := time.Now()

	target, perr := s.validate(req.URL)
	if perr != nil {
		return nil, perr
	}

	decision, err := s.gate.Evaluate(ctx, target)
	if err != nil {
		s.logger.Error("policy evaluation failed", zap.String("url", req.URL), zap.Error(err))
		return nil, &Error{Kind: KindInternal, Message: "Failed to fetch website", Err: err}
	}
	if !decision.Allowed {
		if s.metrics != nil {
			s.metrics.RecordBlocked(decision.Reason.String())
		}
		return nil, refusalError(decision.Reason, target.Hostname())
	}

	class := fetch.ClassDocument
	if req.Type == TypeResource {
		class = fetch.ClassResource
	}

	hostname := target.Hostname()
	cookieHeader := s.sessions.Header(req.SessionID, hostname)

	fetchStart := time.Now()
	result, err := s.fetcher.Fetch(ctx, target, class, cookieHeader)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordUpstreamError(classLabel(class), errorLabel(err))
		}
		if errors.Is(err, fetch.ErrTimeout) {
			return nil, &Error{
				Kind:    KindUpstreamTimeout,
				Message: "Request timed out - the website took too long to respond",
				Err:     err,
			}
		}
		return nil, &Error{Kind: KindUpstreamFetch, Message: "Failed to fetch website", Err: err}
	}
	if s.metrics != nil {
		s.metrics.RecordUpstreamFetch(classLabel(class), strconv.Itoa(result.Status), time.Since(fetchStart))
	}

	s.sessions.Merge(req.SessionID, hostname, result.SetCookies)
	if s.metrics != nil {
		s.metrics.SetCookieJars(s.sessions.Len())
	}

	resp := s.buildResponse(result, target, class)

	elapsed := time.Since(start)
	analytics.Async(s.recorder, analytics.Record{
		TargetURL:       req.URL,
		StatusCode:      result.Status,
		ResponseSize:    len(result.Body),
		ClientUserAgent: clientUserAgent,
		Elapsed:         elapsed,
	})

	s.logger.Info("proxy request completed",
		zap.String("url", req.URL),
		zap.String("type", string(req.Type)),
		zap.Int("status", result.Status),
		zap.Int("size", len(result.Body)),
		zap.Duration("elapsed", elapsed))

	return resp, nil
}

// validate applies the pre-parse protocol check and URL parsing.
func (s *Service) validate(raw string) (*url.URL, *Error) {
	if raw == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: "URL is required"}
	}

	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range blockedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return nil, &Error{Kind: KindBlockedProtocol, Message: "This protocol is not allowed"}
		}
	}

	target, err := url.Parse(raw)
	if err != nil || target.Host == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: "Invalid URL format"}
	}
	return target, nil
}

// buildResponse shapes the fetch result into a response. HTML documents are
// rewritten; everything requested as a resource goes back base64-encoded
// so binary bodies survive the JSON envelope.
func (s *Service) buildResponse(result *fetch.Result, target *url.URL, class fetch.Class) *Response {
	if class == fetch.ClassResource {
		return &Response{
			Content:       base64.StdEncoding.EncodeToString(result.Body),
			Status:        result.Status,
			ContentType:   result.ContentType,
			ContentLength: len(result.Body),
			IsBase64:      true,
		}
	}

	content := string(result.Body)
	if result.IsHTML {
		rewriteStart := time.Now()
		content = s.rewriter.Rewrite(result.HTML, target)
		if s.metrics != nil {
			s.metrics.RecordRewrite(time.Since(rewriteStart))
		}
	}

	return &Response{Content: content, Status: result.Status}
}

func refusalError(reason policy.Reason, hostname string) *Error {
	switch reason {
	case policy.ReasonBlockedProtocol:
		return &Error{Kind: KindBlockedProtocol, Message: "This protocol is not allowed"}
	case policy.ReasonBlockedDomain:
		return &Error{Kind: KindBlockedDomain, Message: "This domain is blocked"}
	case policy.ReasonResistantSite:
		return &Error{
			Kind:    KindResistantSite,
			Message: fmt.Sprintf("%s uses advanced security measures that prevent proxy access. Try simpler websites.", hostname),
			Blocked: true,
		}
	case policy.ReasonMaintenance:
		return &Error{Kind: KindMaintenance, Message: "Service is under maintenance"}
	default:
		return &Error{Kind: KindInternal, Message: "Failed to fetch website"}
	}
}

func classLabel(class fetch.Class) string {
	if class == fetch.ClassResource {
		return "resource"
	}
	return "document"
}

func errorLabel(err error) string {
	if errors.Is(err, fetch.ErrTimeout) {
		return "timeout"
	}
	return "fetch"
}
