package syncops

import (
	"fmt"
	"os"
	"time"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/syncerr"
	"github.com/halcyonsync/filesync/internal/transfer"
	"github.com/halcyonsync/filesync/internal/walk"
)

// Pull downloads each of srcs from the remote to dst. A failing source,
// including one missing on the remote, is reported through the session's
// error line and the remaining sources are still attempted; Pull returns an
// error at the end if any source failed, matching Push's continue-on-error
// policy (spec.md §4.F).
func Pull(sess *session.Session, srcs []string, dst string, copyAttrs bool) error {
	multiSource := len(srcs) > 1
	if multiSource || hasTrailingSlash(dst) {
		info, err := os.Stat(dst)
		if err != nil || !info.IsDir() {
			return &syncerr.NotADirectory{Path: dst}
		}
	}

	var failed bool
	for _, src := range srcs {
		if err := pullOne(sess, src, dst, copyAttrs); err != nil {
			sess.Error("%v", err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("pull: one or more sources failed")
	}
	return nil
}

func pullOne(sess *session.Session, src, dst string, copyAttrs bool) error {
	stat, err := statRemote(sess, src)
	if err != nil {
		return err
	}
	if stat.Mode == 0 {
		return &syncerr.RemoteNotFound{Path: src}
	}

	if proto.IsDir(stat.Mode) {
		return pullTree(sess, src, dst, copyAttrs)
	}

	effectiveDst := dst
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		effectiveDst = rewriteIntoDirectory(dst, src)
	}

	if err := transfer.RecvFile(sess, src, effectiveDst); err != nil {
		return err
	}
	if copyAttrs {
		return applyAttrs(effectiveDst, stat)
	}
	return nil
}

// pullTree mirrors pushTree for the download direction: the remote tree is
// walked through the session and every file/symlink received in turn.
func pullTree(sess *session.Session, src, dst string, copyAttrs bool) error {
	src = normalizeTrailingSlash(src)
	root := rewriteIntoDirectory(dst, src)

	records, err := walk.Build(walk.Remote{RW: sess}, src, root, sess.Sink())
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := transfer.RecvFile(sess, rec.Src, rec.Dst); err != nil {
			return err
		}
		if copyAttrs {
			if err := applyAttrs(rec.Dst, proto.StatResult{Mode: rec.Mode, Size: 0, Mtime: uint32(rec.Mtime)}); err != nil { //nolint:gosec // G115: mtimes are small positive unix timestamps
				return err
			}
		}
	}
	return nil
}

// applyAttrs sets the local file's mtime and permission bits after a pull
// with copy_attrs, masking the remote mode with the process umask the same
// way the reference implementation's set_time_and_mode does.
func applyAttrs(local string, stat proto.StatResult) error {
	mask := umask()
	if err := os.Chmod(local, os.FileMode(stat.Mode&0o777&^mask)); err != nil {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}
	mtime := time.Unix(int64(stat.Mtime), 0) //nolint:gosec // G115: mtime is a small positive unix timestamp
	if err := os.Chtimes(local, mtime, mtime); err != nil {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}
	return nil
}

func hasTrailingSlash(p string) bool {
	return len(p) > 0 && p[len(p)-1] == '/'
}
