// Package monitoring provides Prometheus metrics and the Gin middleware
// that feeds the HTTP-level ones.
package monitoring
