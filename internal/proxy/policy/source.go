package policy

import (
	"context"
	"strings"
	"sync"
)

// StaticSource is an in-memory Source. The admin surface mutates it at
// runtime through SetDomainBlocked and SetMaintenance; the gate reads it on
// every request.
type StaticSource struct {
	mu          sync.RWMutex
	blocked     map[string]struct{}
	maintenance bool
}

// NewStaticSource creates a source seeded with blocked hostnames.
func NewStaticSource(blockedDomains []string, maintenance bool) *StaticSource {
	blocked := make(map[string]struct{}, len(blockedDomains))
	for _, d := range blockedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			blocked[d] = struct{}{}
		}
	}
	return &StaticSource{blocked: blocked, maintenance: maintenance}
}

// IsDomainBlocked reports whether hostname is on the blocklist.
func (s *StaticSource) IsDomainBlocked(_ context.Context, hostname string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocked[strings.ToLower(hostname)]
	return ok, nil
}

// MaintenanceEnabled reports whether the proxy is in maintenance mode.
func (s *StaticSource) MaintenanceEnabled(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenance, nil
}

// SetDomainBlocked adds or removes hostname from the blocklist.
func (s *StaticSource) SetDomainBlocked(hostname string, blocked bool) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if blocked {
		s.blocked[hostname] = struct{}{}
	} else {
		delete(s.blocked, hostname)
	}
}

// SetMaintenance toggles maintenance mode.
func (s *StaticSource) SetMaintenance(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = enabled
}
