package walk

import (
	"os"

	"github.com/halcyonsync/filesync/internal/proto"
)

// fallbackMode derives approximate POSIX mode bits from os.FileMode alone,
// used when no raw syscall.Stat_t is available. Permission bits map
// directly; the type bits are reconstructed from Go's mode flags.
func fallbackMode(fi os.FileInfo) uint32 {
	mode := uint32(fi.Mode().Perm())
	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		mode |= proto.ModeLnk
	case fi.Mode().IsDir():
		mode |= proto.ModeDir
	case fi.Mode().IsRegular():
		mode |= proto.ModeReg
	}
	return mode
}
