// Package proxy orchestrates the request pipeline: policy evaluation,
// session cookie replay, the upstream fetch, and either HTML rewriting
// (documents) or base64 packaging (resources).
//
// Subpackages hold the individual stages; this package owns the request
// and response shapes, the error taxonomy, and the Service that wires the
// stages together.
package proxy
