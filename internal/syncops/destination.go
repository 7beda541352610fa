// Package syncops implements the command dispatcher (spec.md §4.F): the
// four top-level operations list, push, pull, and sync, plus the
// destination-resolution rules shared between them.
package syncops

import (
	"path"
	"strings"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/syncerr"
)

// statRemote issues a STAT for path and returns its result, treating a
// transport error as fatal but leaving "does not exist" (mode 0) to the
// caller to interpret.
func statRemote(sess *session.Session, p string) (proto.StatResult, error) {
	if len(p) > proto.MaxPathLen {
		return proto.StatResult{}, &syncerr.PathTooLong{Path: p, Max: proto.MaxPathLen}
	}
	if err := proto.WriteRequest(sess, proto.TagSTAT, []byte(p)); err != nil {
		return proto.StatResult{}, err
	}
	return proto.ReadStat(sess)
}

// resolveDestination implements the uniform rule from spec.md §4.F: a
// trailing-slash target or a multi-source batch both demand an existing
// directory target.
func resolveDestination(sess *session.Session, dst string, sourceCount int) (proto.StatResult, error) {
	stat, err := statRemote(sess, dst)
	if err != nil {
		return proto.StatResult{}, err
	}

	needsDir := sourceCount > 1 || strings.HasSuffix(dst, "/")
	if needsDir && !proto.IsDir(stat.Mode) {
		return proto.StatResult{}, &syncerr.NotADirectory{Path: dst}
	}
	return stat, nil
}

// rewriteIntoDirectory implements spec.md §4.F's single-file-into-directory
// rewrite: "<dst>/<basename(src)>".
func rewriteIntoDirectory(dst, src string) string {
	return strings.TrimRight(dst, "/") + "/" + path.Base(strings.TrimRight(src, "/"))
}

// normalizeTrailingSlash strips a trailing slash from a path used as a
// recursion root, matching adb's treatment of `dir/` and `dir` as
// equivalent sync roots (supplemented from the reference implementation;
// spec.md is silent on this normalization).
func normalizeTrailingSlash(p string) string {
	return strings.TrimRight(p, "/")
}
