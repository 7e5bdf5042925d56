// Package middleware provides HTTP middleware for the screensaver bot.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - Gzip compression for API responses
package middleware
