//go:build unix

package walk

import (
	"os"
	"syscall"
)

// posixMode reads the raw st_mode off the underlying syscall.Stat_t so the
// wire protocol carries the host's real POSIX mode bits rather than Go's
// reinterpreted os.FileMode encoding.
func posixMode(fi os.FileInfo) uint32 {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return uint32(st.Mode) //nolint:gosec // G115: st_mode fits uint32 on every unix target
	}
	return fallbackMode(fi)
}
