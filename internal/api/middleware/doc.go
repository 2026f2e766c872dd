// Package middleware provides Gin middleware for the API layer.
package middleware
