// Package service manages source discovery and procedure dispatch. Each
// registered provider exposes declarative procedure metadata and an
// execution entry point; the registry routes "source.procedure" calls
// to the right provider.
package service
