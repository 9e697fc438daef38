// Package middleware provides HTTP middleware for the asset browser.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by mux route template
//   - Configurable filtering for static files and health checks
package middleware
