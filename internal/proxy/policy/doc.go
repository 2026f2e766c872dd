// Package policy decides whether a proxied fetch may proceed.
//
// A Gate evaluates three independent checks against a Source snapshot:
// protocol allow-list, hostname blocklist and the global maintenance flag.
// Scheme and format checks run first because they are free; the blocklist
// and maintenance lookups query independent external state and are issued
// concurrently. Decisions are computed fresh per request and never cached,
// so admin toggles take effect immediately.
//
// A built-in list of hosts known to resist proxying (heavy bot detection,
// login walls, streaming DRM) is rejected up front with a distinct reason,
// separate from the admin-managed blocklist.
package policy
