package policy

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Reason classifies why a request was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonBlockedProtocol
	ReasonBlockedDomain
	ReasonResistantSite
	ReasonMaintenance
)

// String returns the reason label used in logs and metrics.
func (r Reason) String() string {
	switch r {
	case ReasonBlockedProtocol:
		return "blocked_protocol"
	case ReasonBlockedDomain:
		return "blocked_domain"
	case ReasonResistantSite:
		return "resistant_site"
	case ReasonMaintenance:
		return "maintenance"
	default:
		return "none"
	}
}

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allowed = Decision{Allowed: true, Reason: ReasonNone}

// Source supplies the externally mutable policy state. Implementations must
// tolerate concurrent readers.
type Source interface {
	IsDomainBlocked(ctx context.Context, hostname string) (bool, error)
	MaintenanceEnabled(ctx context.Context) (bool, error)
}

// blockedSchemes are never fetched, regardless of blocklist state.
var blockedSchemes = map[string]struct{}{
	"javascript": {},
	"file":       {},
	"data":       {},
	"blob":       {},
}

// resistantHosts are sites whose bot detection or login flows break under
// rewriting; rejecting them early gives the caller a clearer error than a
// half-rendered page.
var resistantHosts = map[string]struct{}{
	"youtube.com":               {},
	"www.youtube.com":           {},
	"m.youtube.com":             {},
	"instagram.com":             {},
	"www.instagram.com":         {},
	"facebook.com":              {},
	"www.facebook.com":          {},
	"m.facebook.com":            {},
	"twitter.com":               {},
	"www.twitter.com":           {},
	"x.com":                     {},
	"www.x.com":                 {},
	"tiktok.com":                {},
	"www.tiktok.com":            {},
	"netflix.com":               {},
	"www.netflix.com":           {},
	"google.com":                {},
	"www.google.com":            {},
	"accounts.google.com":       {},
	"login.microsoftonline.com": {},
}

// Gate evaluates policy for target URLs.
type Gate struct {
	source Source
}

// NewGate creates a policy gate backed by source.
func NewGate(source Source) *Gate {
	return &Gate{source: source}
}

// Evaluate runs all policy checks for target. The cheap local checks run
// first; the blocklist and maintenance lookups run concurrently and both
// complete before a verdict. Lookup errors fail closed.
func (g *Gate) Evaluate(ctx context.Context, target *url.URL) (Decision, error) {
	scheme := strings.ToLower(target.Scheme)
	if _, ok := blockedSchemes[scheme]; ok {
		return Decision{Reason: ReasonBlockedProtocol}, nil
	}
	if scheme != "http" && scheme != "https" {
		return Decision{Reason: ReasonBlockedProtocol}, nil
	}

	hostname := strings.ToLower(target.Hostname())
	if _, ok := resistantHosts[hostname]; ok {
		return Decision{Reason: ReasonResistantSite}, nil
	}

	type lookup struct {
		hit bool
		err error
	}

	blockedCh := make(chan lookup, 1)
	maintenanceCh := make(chan lookup, 1)

	go func() {
		hit, err := g.source.IsDomainBlocked(ctx, hostname)
		blockedCh <- lookup{hit: hit, err: err}
	}()
	go func() {
		hit, err := g.source.MaintenanceEnabled(ctx)
		maintenanceCh <- lookup{hit: hit, err: err}
	}()

	blocked := <-blockedCh
	maintenance := <-maintenanceCh

	if blocked.err != nil {
		return Decision{}, fmt.Errorf("blocklist lookup: %w", blocked.err)
	}
	if maintenance.err != nil {
		return Decision{}, fmt.Errorf("maintenance lookup: %w", maintenance.err)
	}

	if blocked.hit {
		return Decision{Reason: ReasonBlockedDomain}, nil
	}
	if maintenance.hit {
		return Decision{Reason: ReasonMaintenance}, nil
	}

	return allowed, nil
}
