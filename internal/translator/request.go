package translator

import (
	"io"
	"time"
)

// Request describes one procedure invocation. It is treated as
// immutable once handed to CreateExecution.
type Request struct {
	// Procedure is matched case-insensitively against the four
	// procedure names.
	Procedure string
	// Path is the path or pattern argument.
	Path string
	// Content carries the saveFile payload; nil otherwise.
	Content *Payload
	// Columns restricts the result projection for list procedures.
	// Empty means all columns. When only content and path columns are
	// requested, no metadata is fetched for the records.
	Columns []string
}

// Payload carries saveFile content. Text payloads are encoded into the
// source's configured charset before writing; binary and XML payloads
// are written as-is.
type Payload struct {
	Kind   ContentKind
	Reader io.Reader
}

// FileRecord is one row of a list procedure result. Metadata fields are
// nil when the projection omitted them.
type FileRecord struct {
	Content      *Content
	Name         string
	LastModified *time.Time
	Created      *time.Time
	Size         *int64
}
