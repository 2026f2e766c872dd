package proxy

import "net/http"

// Kind classifies a pipeline failure for status mapping.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindBlockedProtocol
	KindBlockedDomain
	KindResistantSite
	KindMaintenance
	KindUpstreamTimeout
	KindUpstreamFetch
	KindInternal
)

// Error is the failure type returned by the Service. Message is safe to
// send to clients; Err holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Blocked bool
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput, KindBlockedProtocol:
		return http.StatusBadRequest
	case KindBlockedDomain, KindResistantSite:
		return http.StatusForbidden
	case KindMaintenance:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
