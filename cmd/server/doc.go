// Package main is the entry point for the filebridge server.
//
// The server exposes stored-procedure style file operations over HTTP.
// Each configured source is backed by a local directory or an in-memory
// virtual store seeded from archives, and publishes four procedures:
// getTextFiles, getFiles, saveFile, and deleteFile.
//
// Configuration:
//   - Environment variables (12-factor)
//   - A YAML source definitions file (see -sources)
//   - Defaults for development
//
// Usage:
//
//	./server -sources sources.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
