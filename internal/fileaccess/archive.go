package fileaccess

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// LoadArchive seeds the virtual store from an archive on disk. The
// format is chosen by extension: .zip, .tar, .tar.gz, .tgz, .tar.zst.
// Entry modification times are preserved.
func (v *Virtual) LoadArchive(p string) error {
	lower := strings.ToLower(p)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return v.loadZIP(p)
	case strings.HasSuffix(lower, ".tar"):
		f, err := os.Open(p)
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		defer f.Close()
		return v.loadTAR(p, f)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		f, err := os.Open(p)
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		defer f.Close()
		gz, err := gzip.NewReader(f)
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		defer gz.Close()
		return v.loadTAR(p, gz)
	case strings.HasSuffix(lower, ".tar.zst"):
		f, err := os.Open(p)
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		defer f.Close()
		zr, err := zstd.NewReader(f)
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		defer zr.Close()
		return v.loadTAR(p, zr)
	default:
		return fmt.Errorf("unsupported archive format: %s", p)
	}
}

func (v *Virtual) loadZIP(p string) error {
	r, err := zip.OpenReader(p)
	if err != nil {
		return &IOError{Path: p, Err: err}
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		if err := v.Put(f.Name, data, f.Modified); err != nil {
			return err
		}
	}
	return nil
}

func (v *Virtual) loadTAR(p string, r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return &IOError{Path: p, Err: err}
		}
		if err := v.Put(hdr.Name, data, hdr.ModTime); err != nil {
			return err
		}
	}
}
