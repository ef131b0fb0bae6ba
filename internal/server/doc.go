// Package server builds the gin router, registers one provider per
// configured source, and runs the HTTP service.
package server
