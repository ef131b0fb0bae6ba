package translator

import (
	"errors"
	"io"
	"strings"

	"github.com/york1996-max/filebridge/internal/fileaccess"
)

// Execution is a handle over one in-progress procedure invocation.
//
// List executions yield records one at a time until (nil, nil) marks
// the end of the sequence; the cursor only moves forward. Save and
// delete executions complete during CreateExecution and yield no rows.
type Execution interface {
	// Next returns the next record, or (nil, nil) at end-of-sequence.
	// A failure affects only the current call; records returned
	// earlier remain valid.
	Next() (*FileRecord, error)
	// Close releases the handle. It is idempotent and never closes
	// content streams the caller has opened.
	Close() error
}

// listExecution walks a resolved file set in resolution order.
type listExecution struct {
	access   fileaccess.FileAccess
	files    []fileaccess.Handle
	index    int
	text     bool
	encoding string
	wantMeta bool
	closed   bool
}

func (e *listExecution) Next() (*FileRecord, error) {
	if e.closed {
		return nil, errors.New("execution closed")
	}
	if e.index >= len(e.files) {
		return nil, nil
	}
	h := e.files[e.index]
	e.index++

	kind := ContentBinary
	if e.text {
		kind = ContentText
	}
	rec := &FileRecord{
		Content: newContent(kind, e.encoding, func() (io.ReadCloser, error) {
			return e.access.Open(h)
		}),
		Name: h.Path(),
	}
	if !e.wantMeta {
		return rec, nil
	}

	info, err := h.Stat()
	if err != nil {
		return nil, err
	}
	mod := info.ModTime
	created := info.Created
	if !info.HasCreated {
		created = mod
	}
	size := info.Size
	rec.LastModified = &mod
	rec.Created = &created
	rec.Size = &size
	return rec, nil
}

func (e *listExecution) Close() error {
	e.closed = true
	e.files = nil
	return nil
}

// completedExecution is returned by save and delete, whose work happens
// at execute time and produces no rows.
type completedExecution struct{}

func (completedExecution) Next() (*FileRecord, error) { return nil, nil }
func (completedExecution) Close() error               { return nil }

// wantsMetadata reports whether the projection needs anything beyond
// content and path. Skipping metadata avoids a stat round-trip per record.
func wantsMetadata(columns []string) bool {
	if len(columns) == 0 {
		return true
	}
	for _, c := range columns {
		if !strings.EqualFold(c, ColumnFile) && !strings.EqualFold(c, ColumnFilePath) {
			return true
		}
	}
	return false
}
