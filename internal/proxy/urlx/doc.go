// Package urlx provides URL classification and resolution for the rewriter.
//
// Resolve is called for every URL-bearing attribute, every CSS url() and
// every srcset candidate on a page, so it is deliberately allocation-light:
// one url.Parse per call in the worst case, no I/O, no locks.
//
// Resolution rules, in priority order:
//  1. Pass through unresolved: empty input, fragment-only references, and
//     data:, blob:, javascript:, mailto:, tel: schemes.
//  2. Protocol-relative (//host/path) gets the document's scheme.
//  3. Root-relative (/path) gets the document's origin.
//  4. Plain relative paths resolve against the full document base URL
//     (RFC 3986 dot-segment semantics via net/url).
//  5. Already-absolute http(s) URLs pass through unchanged, which makes
//     Resolve idempotent on its own output.
package urlx
