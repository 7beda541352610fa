package syncops

import (
	"fmt"
	"os"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/transfer"
	"github.com/halcyonsync/filesync/internal/walk"
)

// Push uploads each of srcs to dst. Every source is attempted in turn: a
// per-source failure is reported through the session's error line, the
// batch continues, and Push returns an error at the end if any source
// failed. A directory source stops its own tree at the first file that
// fails (spec.md §4.F, §7's propagation policy).
func Push(sess *session.Session, srcs []string, dst string) error {
	dstStat, err := resolveDestination(sess, dst, len(srcs))
	if err != nil {
		return err
	}

	var failed bool
	for _, src := range srcs {
		if err := pushOne(sess, src, dst, dstStat); err != nil {
			sess.Error("%v", err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("push: one or more sources failed")
	}
	return nil
}

func pushOne(sess *session.Session, src, dst string, dstStat proto.StatResult) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return pushTree(sess, src, dst)
	}

	effectiveDst := dst
	if proto.IsDir(dstStat.Mode) {
		effectiveDst = rewriteIntoDirectory(dst, src)
	}
	return transfer.SendFile(sess, src, effectiveDst, walk.PosixMode(info), info.ModTime().Unix())
}

// pushTree performs a full-tree, non-incremental push: every file in src
// is sent regardless of what the remote already has, matching spec.md's
// "incremental = false for one-shot push". A single failure anywhere in
// the tree aborts the whole tree transfer (§7: no per-file skip-on-error
// within a tree).
func pushTree(sess *session.Session, src, dst string) error {
	src = normalizeTrailingSlash(src)
	root := rewriteIntoDirectory(dst, src)

	records, err := walk.Build(walk.Local{}, src, root, sess.Sink())
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := transfer.SendFile(sess, rec.Src, rec.Dst, rec.Mode, rec.Mtime); err != nil {
			return err
		}
	}
	return nil
}

