// Package middleware provides gin middleware for the service: CORS,
// per-IP rate limiting, and request logging with request IDs.
package middleware
