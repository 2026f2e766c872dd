// Package rewrite transforms fetched HTML so every reference resolves back
// through the proxy rather than directly at the target.
//
// Transformations run in a fixed order so later steps see normalized
// markup: security meta tags are stripped first, a base element is
// installed, URL-bearing attributes and CSS references are absolutized,
// subresource-integrity and resource-hint markup that cannot survive
// relocation is removed, and finally the runtime shim is injected.
//
// The rewriter is total: it never fails on malformed input. net/html
// parses forgivingly (synthesizing head/body, leaving unmatched tags
// as-is), and in the unlikely event parsing or re-serialization errors,
// the rewriter degrades to appending the shim to the raw input instead of
// returning an error.
package rewrite
