//go:build linux

package fileaccess

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime approximates the creation time from the inode change time.
// Linux does not expose statx birth time through os.FileInfo.
func creationTime(info fs.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), true
}
