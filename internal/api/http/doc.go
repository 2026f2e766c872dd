// Package http contains the Gin handlers for the proxy endpoint and the
// service status routes.
package http
