//go:build unix

package syncops

import "golang.org/x/sys/unix"

// umask reads the process umask without permanently changing it: Umask
// only reports the previous mask as a side effect of setting a new one, so
// the read is immediately undone (spec.md §6/§9: "umask (read-and-restore
// pattern)").
func umask() uint32 {
	old := unix.Umask(0)
	unix.Umask(old)
	return uint32(old) //nolint:gosec // G115: umask is always in [0, 0o777]
}
