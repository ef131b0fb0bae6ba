package fileaccess

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// Local provides disk-backed file access rooted at a directory.
type Local struct {
	root string
}

// NewLocal creates a local source rooted at dir.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", dir)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string { return l.root }

// Resolve maps a pattern to matching regular files in lexicographic order.
func (l *Local) Resolve(pattern string) ([]Handle, error) {
	rel, err := l.normalize(pattern)
	if err != nil {
		return nil, &ResolutionError{Pattern: pattern, Err: err}
	}

	if !strings.ContainsAny(rel, "*?[{") {
		return l.resolveLiteral(pattern, rel)
	}
	if strings.Contains(rel, "**") {
		return l.resolveRecursive(pattern, rel)
	}
	return l.resolveGlob(pattern, rel)
}

// resolveLiteral handles patterns without wildcards: an exact file, or a
// directory whose immediate regular files are returned.
func (l *Local) resolveLiteral(pattern, rel string) ([]Handle, error) {
	abs := filepath.Join(l.root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ResolutionError{Pattern: pattern, Err: err}
	}
	if !info.IsDir() {
		return []Handle{l.handle(rel)}, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, &ResolutionError{Pattern: pattern, Err: err}
	}
	var matches []Handle
	for _, e := range entries {
		if e.Type().IsRegular() {
			matches = append(matches, l.handle(path.Join(rel, e.Name())))
		}
	}
	return matches, nil
}

// resolveGlob handles single-directory patterns such as dir/*.csv.
func (l *Local) resolveGlob(pattern, rel string) ([]Handle, error) {
	dir, base := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")
	abs := filepath.Join(l.root, filepath.FromSlash(dir))

	entries, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ResolutionError{Pattern: pattern, Err: err}
	}

	var matches []Handle
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ok, merr := doublestar.Match(base, e.Name())
		if merr != nil {
			return nil, &ResolutionError{Pattern: pattern, Err: merr}
		}
		if ok {
			matches = append(matches, l.handle(path.Join(dir, e.Name())))
		}
	}
	return matches, nil
}

// resolveRecursive handles ** patterns via a parallel walk. The walk is
// unordered, so matches are sorted before they are returned.
func (l *Local) resolveRecursive(pattern, rel string) ([]Handle, error) {
	base, remainder := doublestar.SplitPattern(rel)
	walkRoot := l.root
	if base != "." {
		walkRoot = filepath.Join(l.root, filepath.FromSlash(base))
	}
	if _, err := os.Stat(walkRoot); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var (
		mu   sync.Mutex
		rels []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, walkRoot, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return err
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		sub, rerr := filepath.Rel(walkRoot, p)
		if rerr != nil {
			return nil
		}
		sub = filepath.ToSlash(sub)
		ok, merr := doublestar.Match(remainder, sub)
		if merr != nil {
			return merr
		}
		if ok {
			mu.Lock()
			rels = append(rels, path.Join(base, sub))
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, &ResolutionError{Pattern: pattern, Err: err}
	}

	sort.Strings(rels)
	matches := make([]Handle, 0, len(rels))
	for _, r := range rels {
		matches = append(matches, l.handle(r))
	}
	return matches, nil
}

// Open returns the content stream for a handle produced by this source.
func (l *Local) Open(h Handle) (io.ReadCloser, error) {
	lh, ok := h.(*localHandle)
	if !ok {
		return nil, fmt.Errorf("handle %q does not belong to a local source", h.Path())
	}
	f, err := os.Open(lh.abs)
	if err != nil {
		return nil, &IOError{Path: lh.rel, Err: err}
	}
	return f, nil
}

// Write stores r at path, creating parent directories as needed and
// overwriting any existing file.
func (l *Local) Write(p string, r io.Reader) error {
	rel, err := l.normalize(p)
	if err != nil {
		return &IOError{Path: p, Err: err}
	}
	abs := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return &IOError{Path: p, Err: err}
	}
	f, err := os.Create(abs)
	if err != nil {
		return &IOError{Path: p, Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return &IOError{Path: p, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Path: p, Err: err}
	}
	return nil
}

// Remove deletes path, reporting false when nothing existed there.
func (l *Local) Remove(p string) (bool, error) {
	rel, err := l.normalize(p)
	if err != nil {
		return false, &IOError{Path: p, Err: err}
	}
	abs := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &IOError{Path: p, Err: err}
	}
	return true, nil
}

func (l *Local) normalize(pattern string) (string, error) {
	return cleanPath(pattern)
}

func (l *Local) handle(rel string) *localHandle {
	return &localHandle{
		rel: rel,
		abs: filepath.Join(l.root, filepath.FromSlash(rel)),
	}
}

// localHandle defers all metadata to Stat so that listings which only
// need names never touch the disk again.
type localHandle struct {
	rel string
	abs string
}

func (h *localHandle) Name() string { return path.Base(h.rel) }
func (h *localHandle) Path() string { return h.rel }

func (h *localHandle) Stat() (FileInfo, error) {
	info, err := os.Stat(h.abs)
	if err != nil {
		return FileInfo{}, &IOError{Path: h.rel, Err: err}
	}
	created, ok := creationTime(info)
	return FileInfo{
		ModTime:    info.ModTime(),
		Created:    created,
		HasCreated: ok,
		Size:       info.Size(),
	}, nil
}
