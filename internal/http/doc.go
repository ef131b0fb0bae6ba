// Package http exposes the procedure surface over HTTP: source and
// procedure metadata, procedure execution, raw content download, and
// health endpoints.
package http
