//go:build darwin

package fileaccess

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime reads the file birth time.
func creationTime(info fs.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), true
}
