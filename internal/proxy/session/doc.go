// Package session persists per-session, per-domain cookies so that
// consecutive proxied fetches for the same target replay them, emulating a
// logged-in session across navigations.
//
// The store follows a read-before-fetch, write-after-fetch discipline:
// the endpoint reads the jar to build the Cookie header, performs the
// fetch, then merges any Set-Cookie values from the response.
//
// Cookie attributes (Domain, Path, Secure, SameSite, Expires) are dropped
// on parse. This is deliberate, not an oversight: every proxied site is
// served from the proxy's single origin, so attribute scoping would
// prevent replay entirely. Expiry and eviction are an external concern.
package session
