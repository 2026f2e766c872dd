// Package config provides 12-factor configuration management for the proxy.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Upstream: outbound fetch timeouts and body limits
//   - Policy: initial domain blocklist and maintenance flag
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - UPSTREAM_DOCUMENT_TIMEOUT, UPSTREAM_RESOURCE_TIMEOUT, UPSTREAM_MAX_BODY_BYTES
//   - POLICY_BLOCKED_DOMAINS, POLICY_MAINTENANCE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
