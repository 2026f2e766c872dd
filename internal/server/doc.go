// Package server assembles the proxy pipeline, middleware, and routes into
// a runnable HTTP server.
package server
