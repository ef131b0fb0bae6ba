// Package translator maps file procedures onto an injected fileaccess
// source. Four procedures are exposed:
//   - getTextFiles: list files matching a pattern, content as text
//     decoded with the source's configured charset
//   - getFiles: list files matching a pattern, content as raw bytes
//   - saveFile: write text, binary, or XML content to a path
//   - deleteFile: remove a path
//
// List procedures produce a forward-only cursor of FileRecords. Record
// content is deferred: each record captures a stream factory that is
// opened at most once, on demand, so listings never load file bodies.
// Opened streams belong to the caller; closing an execution never
// touches them.
//
// Each execution is independent and holds no shared mutable state, so
// separate executions may run concurrently. A single execution is not
// safe for concurrent Next calls.
package translator
