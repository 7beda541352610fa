package syncops

import (
	"fmt"
	"io"

	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/walk"
)

// List walks remotePath on the peer and prints one
// "<mode_hex> <size_hex> <time_hex> <name>" line per entry to w (spec.md
// S5). It returns an error only on a protocol failure; an empty directory
// is not an error.
func List(sess *session.Session, remotePath string, w io.Writer) error {
	entries, err := walk.Remote{RW: sess}.Enumerate(remotePath)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%08x %08x %08x %s\n", e.Mode, uint32(e.Size), uint32(e.Mtime), e.Name) //nolint:gosec // G115: entry fields are wire-format uint32s already
	}
	return nil
}
