package fileaccess

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Virtual provides an in-memory file namespace. It can be seeded from
// archives (see LoadArchive) and is safe for concurrent use.
//
// The store tracks a single timestamp per file, so Stat reports the
// modification time as the creation time as well. This mirrors what
// archive entries carry and is a documented limitation of the
// realization, not of the adapter.
type Virtual struct {
	mu    sync.RWMutex
	files map[string]virtualFile
}

type virtualFile struct {
	data    []byte
	modTime time.Time
}

// NewVirtual creates an empty virtual source.
func NewVirtual() *Virtual {
	return &Virtual{files: make(map[string]virtualFile)}
}

// Put stores data under p with the given modification time.
func (v *Virtual) Put(p string, data []byte, mod time.Time) error {
	rel, err := cleanPath(p)
	if err != nil {
		return &IOError{Path: p, Err: err}
	}
	v.mu.Lock()
	v.files[rel] = virtualFile{data: data, modTime: mod}
	v.mu.Unlock()
	return nil
}

// Len returns the number of stored files.
func (v *Virtual) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.files)
}

// Resolve maps a pattern to matching files in lexicographic order.
func (v *Virtual) Resolve(pattern string) ([]Handle, error) {
	rel, err := cleanPath(pattern)
	if err != nil {
		return nil, &ResolutionError{Pattern: pattern, Err: err}
	}

	v.mu.RLock()
	keys := make([]string, 0, len(v.files))
	for k := range v.files {
		keys = append(keys, k)
	}
	v.mu.RUnlock()
	sort.Strings(keys)

	var matches []Handle
	if !strings.ContainsAny(rel, "*?[{") {
		for _, k := range keys {
			// Exact file, or an immediate child when rel names a directory.
			if k == rel || (strings.HasPrefix(k, rel+"/") && !strings.Contains(k[len(rel)+1:], "/")) {
				matches = append(matches, &virtualHandle{store: v, rel: k})
			}
		}
		return matches, nil
	}

	for _, k := range keys {
		ok, merr := doublestar.Match(rel, k)
		if merr != nil {
			return nil, &ResolutionError{Pattern: pattern, Err: merr}
		}
		if ok {
			matches = append(matches, &virtualHandle{store: v, rel: k})
		}
	}
	return matches, nil
}

// Open returns the content of a handle produced by this source.
func (v *Virtual) Open(h Handle) (io.ReadCloser, error) {
	vh, ok := h.(*virtualHandle)
	if !ok {
		return nil, fmt.Errorf("handle %q does not belong to a virtual source", h.Path())
	}
	v.mu.RLock()
	f, ok := v.files[vh.rel]
	v.mu.RUnlock()
	if !ok {
		return nil, &IOError{Path: vh.rel, Err: fmt.Errorf("file no longer exists")}
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// Write stores r at path, overwriting any existing entry.
func (v *Virtual) Write(p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &IOError{Path: p, Err: err}
	}
	return v.Put(p, data, time.Now())
}

// Remove deletes path, reporting false when nothing existed there.
func (v *Virtual) Remove(p string) (bool, error) {
	rel, err := cleanPath(p)
	if err != nil {
		return false, &IOError{Path: p, Err: err}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.files[rel]; !ok {
		return false, nil
	}
	delete(v.files, rel)
	return true, nil
}

type virtualHandle struct {
	store *Virtual
	rel   string
}

func (h *virtualHandle) Name() string { return path.Base(h.rel) }
func (h *virtualHandle) Path() string { return h.rel }

func (h *virtualHandle) Stat() (FileInfo, error) {
	h.store.mu.RLock()
	f, ok := h.store.files[h.rel]
	h.store.mu.RUnlock()
	if !ok {
		return FileInfo{}, &IOError{Path: h.rel, Err: fmt.Errorf("file no longer exists")}
	}
	// Creation time is not tracked separately; report the modification
	// time for both.
	return FileInfo{
		ModTime:    f.modTime,
		Created:    f.modTime,
		HasCreated: true,
		Size:       int64(len(f.data)),
	}, nil
}
