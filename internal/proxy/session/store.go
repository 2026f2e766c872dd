package session

import (
	"sort"
	"strings"
	"sync"
)

// Cookie is a name/value pair extracted from a Set-Cookie header.
type Cookie struct {
	Name  string
	Value string
}

// ParseSetCookie extracts the name/value pair from a Set-Cookie header,
// ignoring all attributes. Returns false for headers without a usable pair.
func ParseSetCookie(header string) (Cookie, bool) {
	pair := header
	if i := strings.IndexByte(header, ';'); i >= 0 {
		pair = header[:i]
	}

	eq := strings.IndexByte(pair, '=')
	if eq <= 0 {
		return Cookie{}, false
	}

	name := strings.TrimSpace(pair[:eq])
	value := strings.TrimSpace(pair[eq+1:])
	if name == "" {
		return Cookie{}, false
	}

	return Cookie{Name: name, Value: value}, true
}

// ParseSetCookies parses a list of Set-Cookie headers, dropping malformed
// entries.
func ParseSetCookies(headers []string) []Cookie {
	cookies := make([]Cookie, 0, len(headers))
	for _, h := range headers {
		if c, ok := ParseSetCookie(h); ok {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

type jarKey struct {
	session  string
	hostname string
}

// Store holds cookie jars keyed by (session, hostname). Safe for concurrent
// use; merges for the same key are serialized by the store lock so
// read-modify-write updates are never lost.
type Store struct {
	mu   sync.RWMutex
	jars map[jarKey]map[string]string
}

// NewStore creates an empty cookie store.
func NewStore() *Store {
	return &Store{
		jars: make(map[jarKey]map[string]string),
	}
}

// Get returns a copy of the cookie map for (sessionID, hostname). An empty
// sessionID means an anonymous request: no jar is read or created.
func (s *Store) Get(sessionID, hostname string) map[string]string {
	if sessionID == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	jar, ok := s.jars[jarKey{sessionID, strings.ToLower(hostname)}]
	if !ok {
		return nil
	}

	out := make(map[string]string, len(jar))
	for k, v := range jar {
		out[k] = v
	}
	return out
}

// Merge applies cookies to the jar for (sessionID, hostname), last write
// wins per cookie name. No-op for anonymous requests or empty cookie lists.
func (s *Store) Merge(sessionID, hostname string, cookies []Cookie) {
	if sessionID == "" || len(cookies) == 0 {
		return
	}

	key := jarKey{sessionID, strings.ToLower(hostname)}

	s.mu.Lock()
	defer s.mu.Unlock()

	jar, ok := s.jars[key]
	if !ok {
		jar = make(map[string]string, len(cookies))
		s.jars[key] = jar
	}
	for _, c := range cookies {
		jar[c.Name] = c.Value
	}
}

// Header serializes the jar for (sessionID, hostname) into a Cookie header
// value. Names are sorted so the header is deterministic. Returns "" when
// there is nothing to send.
func (s *Store) Header(sessionID, hostname string) string {
	jar := s.Get(sessionID, hostname)
	if len(jar) == 0 {
		return ""
	}

	names := make([]string, 0, len(jar))
	for name := range jar {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(jar[name])
	}
	return b.String()
}

// Len reports the number of jars held, used by health reporting.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jars)
}
