//go:build !linux && !darwin

package fileaccess

import (
	"io/fs"
	"time"
)

// creationTime is unavailable on this platform.
func creationTime(info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
