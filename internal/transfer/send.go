// Package transfer implements the file transfer engine (spec.md §4.C):
// SEND (upload) and RECV (download) of single files, each choosing between
// a small-file single-write strategy and a large-file streaming loop.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/syncerr"
)

// SendFile uploads local to remote. mode carries the POSIX type bits
// captured by the walker; mtime is the timestamp to attach to the SEND's
// terminating DONE frame.
//
// Selection mirrors the reference implementation's send_file: a symlink is
// read and sent as its target text through the small-file path regardless
// of size; a non-regular, non-symlink mode is rejected outright; a regular
// file under the session's chunk size goes through the small-file path,
// anything larger streams.
func SendFile(sess *session.Session, local, remote string, mode uint32, mtime int64) error {
	pathAndMode := remote + "," + modeString(mode)
	if len(pathAndMode) > proto.MaxPathLen {
		return &syncerr.PathTooLong{Path: pathAndMode, Max: proto.MaxPathLen}
	}

	switch {
	case proto.IsSymlink(mode):
		return sendSymlink(sess, local, remote, pathAndMode, mtime)
	case !proto.IsRegular(mode):
		return &syncerr.UnsupportedMode{Path: local, Mode: mode}
	default:
		return sendRegular(sess, local, remote, pathAndMode, mtime)
	}
}

func sendSymlink(sess *session.Session, local, remote, pathAndMode string, mtime int64) error {
	target, err := os.Readlink(local)
	if err != nil {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}
	// The reference protocol sends the link target text with a trailing NUL
	// so a naive C-string reader on the peer terminates correctly.
	data := append([]byte(target), 0)
	if err := proto.WriteSmallFile(sess, pathAndMode, data, uint32(mtime)); err != nil { //nolint:gosec // G115: mtimes are small positive unix timestamps
		return err
	}
	sess.AddBytes(len(data))
	return awaitCopyDone(sess, local, remote)
}

func sendRegular(sess *session.Session, local, remote, pathAndMode string, mtime int64) error {
	f, err := os.Open(local)
	if err != nil {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}

	if uint64(info.Size()) < uint64(sess.ChunkSize()) {
		data := make([]byte, info.Size())
		if _, err := io.ReadFull(f, data); err != nil {
			return &syncerr.LocalIOError{Path: local, Cause: err}
		}
		if err := proto.WriteSmallFile(sess, pathAndMode, data, uint32(mtime)); err != nil { //nolint:gosec // G115: mtimes are small positive unix timestamps
			return err
		}
		sess.AddBytes(len(data))
		return awaitCopyDone(sess, local, remote)
	}

	return sendLarge(sess, f, info.Size(), local, remote, pathAndMode, mtime)
}

func sendLarge(sess *session.Session, f *os.File, size int64, local, remote, pathAndMode string, mtime int64) error {
	if err := proto.WriteRequest(sess, proto.TagSEND, []byte(pathAndMode)); err != nil {
		return err
	}

	buf := make([]byte, sess.ChunkSize())
	var copied int64
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if werr := proto.WriteRequest(sess, proto.TagDATA, buf[:n]); werr != nil {
				return werr
			}
			sess.AddBytes(n)
			copied += int64(n)
			sess.Printf("%s: %d%%", remote, percent(copied, size))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return &syncerr.LocalIOError{Path: local, Cause: err}
		}
	}

	if err := proto.WriteDone(sess, uint32(mtime)); err != nil { //nolint:gosec // G115: mtimes are small positive unix timestamps
		return err
	}
	return awaitCopyDone(sess, local, remote)
}

func percent(copied, total int64) int64 {
	if total <= 0 {
		return 100
	}
	return copied * 100 / total
}

// awaitCopyDone reads the status frame following a file body: OKAY is
// success, FAIL becomes a syncerr.RemoteFailure naming both endpoints, any
// other tag a protocol error. A well-formed FAIL is a complete frame, not a
// desync: it leaves the stream in sync the same way recv's FAIL handling
// does, so it doesn't mark the session unhealthy. Only a malformed response
// (one that isn't even a clean OKAY/FAIL) does that, since at that point the
// peer's next frame boundary is no longer known.
func awaitCopyDone(sess *session.Session, from, to string) error {
	err := proto.ReadStatus(sess)
	if err == nil {
		return nil
	}
	var remoteFail *proto.RemoteFailure
	if errors.As(err, &remoteFail) {
		return &syncerr.RemoteFailure{From: from, To: to, Message: remoteFail.Message}
	}
	sess.Fail()
	return fmt.Errorf("await copy done: %w", err)
}

func modeString(mode uint32) string {
	return fmt.Sprintf("%d", mode)
}
