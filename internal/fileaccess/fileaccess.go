package fileaccess

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo holds handle metadata retrieved by a single Stat call.
type FileInfo struct {
	ModTime    time.Time
	Created    time.Time
	HasCreated bool
	Size       int64
}

// Handle references one resolved file without opening it.
type Handle interface {
	// Name returns the base name of the file.
	Name() string
	// Path returns the file's path relative to the source root.
	Path() string
	// Stat retrieves metadata. Callers that do not need metadata must
	// not call it; content can be opened without a prior Stat.
	Stat() (FileInfo, error)
}

// FileAccess resolves path patterns and performs file I/O for one source.
type FileAccess interface {
	// Resolve maps a pattern to zero or more handles in a stable order.
	// Zero matches is not an error.
	Resolve(pattern string) ([]Handle, error)
	// Open returns the content stream for a resolved handle.
	Open(h Handle) (io.ReadCloser, error)
	// Write stores r at path, creating or overwriting the file.
	Write(path string, r io.Reader) error
	// Remove deletes path, reporting true if a file was removed and
	// false if nothing existed there.
	Remove(path string) (bool, error)
}

// cleanPath normalizes a source-relative path or pattern and rejects
// escapes above the source root.
func cleanPath(p string) (string, error) {
	cleaned := path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "/"))
	if cleaned == "." {
		return "", errors.New("empty path")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("path %q escapes the source root", p)
	}
	return cleaned, nil
}

// ResolutionError indicates the backing store refused to resolve a pattern.
type ResolutionError struct {
	Pattern string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q: %v", e.Pattern, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// IOError wraps a storage read or write failure.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("accessing %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
