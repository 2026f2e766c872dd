// Package fetch executes outbound requests against target sites.
//
// Each fetch is classified as a document (a top-level page load) or a
// resource (a subresource load) and gets a matching header profile,
// deadline, and identity. Responses come back with cookies extracted,
// content classified, and HTML decoded to UTF-8.
package fetch
