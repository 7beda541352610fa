package syncops

import (
	"fmt"
	"io"

	"github.com/halcyonsync/filesync/internal/plan"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/transfer"
	"github.com/halcyonsync/filesync/internal/walk"
)

// Mirror performs an always-incremental push from local to remote (spec.md
// §4.F's sync). When listOnly, each non-skipped entry is printed as
// "would push: <src> -> <dst>" instead of being transferred.
func Mirror(sess *session.Session, local, remote string, listOnly bool, w io.Writer) error {
	local = normalizeTrailingSlash(local)
	remote = normalizeTrailingSlash(remote)

	records, err := walk.Build(walk.Local{}, local, remote, sess.Sink())
	if err != nil {
		return err
	}

	records, err = plan.Annotate(sess, records)
	if err != nil {
		return err
	}

	var pushed, skipped int
	for _, rec := range records {
		if rec.Skip {
			skipped++
			continue
		}
		if listOnly {
			fmt.Fprintf(w, "would push: %s -> %s\n", rec.Src, rec.Dst)
			continue
		}
		if err := transfer.SendFile(sess, rec.Src, rec.Dst, rec.Mode, rec.Mtime); err != nil {
			return err
		}
		pushed++
	}

	fmt.Fprintf(w, "%d %s pushed. %d %s skipped.%s\n",
		pushed, plural(pushed), skipped, plural(skipped), sess.TransferRate())
	return nil
}

// plural mirrors the reference client's (n==1) ? "" : "s" pluralization of
// its push/skip summary counts.
func plural(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
