package translator

import (
	"errors"
	"fmt"
)

// InvalidRequestError reports a missing or malformed procedure argument.
// It indicates a caller bug and is never worth retrying.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// NotFoundError reports a pattern or path that resolved to nothing while
// the source is configured to treat that as a failure.
type NotFoundError struct {
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Pattern)
}

// WriteError wraps a storage failure during saveFile.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error writing %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DeleteError wraps a storage failure during deleteFile.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("error deleting %q: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidRequest reports whether err is an InvalidRequestError.
func IsInvalidRequest(err error) bool {
	var ir *InvalidRequestError
	return errors.As(err, &ir)
}
