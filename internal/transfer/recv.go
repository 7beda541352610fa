package transfer

import (
	"os"
	"path/filepath"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/syncerr"
)

// RecvFile downloads remote into local. It first STATs remote to fail fast
// on a nonexistent source, then issues RECV and streams the response body
// to disk, unlinking the partial file on any error (spec.md §4.C, §5's
// scoped-resource guarantee on recv).
func RecvFile(sess *session.Session, remote, local string) error {
	if len(remote) > proto.MaxPathLen {
		return &syncerr.PathTooLong{Path: remote, Max: proto.MaxPathLen}
	}

	if err := proto.WriteRequest(sess, proto.TagSTAT, []byte(remote)); err != nil {
		return err
	}
	stat, err := proto.ReadStat(sess)
	if err != nil {
		return err
	}
	if stat.Mode == 0 {
		return &syncerr.RemoteNotFound{Path: remote}
	}

	if err := proto.WriteRequest(sess, proto.TagRECV, []byte(remote)); err != nil {
		return err
	}

	if err := prepareLocal(local); err != nil {
		return err
	}

	f, err := os.OpenFile(local, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}

	if err := streamBody(sess, f, remote, local); err != nil {
		f.Close()
		os.Remove(local)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(local)
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}
	return nil
}

// prepareLocal removes any existing file at local and creates its ancestor
// directories, matching the reference implementation's unlink-then-mkdir_p
// sequence ahead of opening the destination.
func prepareLocal(local string) error {
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return &syncerr.LocalIOError{Path: local, Cause: err}
	}
	if dir := filepath.Dir(local); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &syncerr.LocalIOError{Path: local, Cause: err}
		}
	}
	return nil
}

// streamBody reads the DATA*/DONE sequence following a RECV request,
// writing each chunk to f. No acknowledgement is sent back (spec.md
// invariant 3).
func streamBody(sess *session.Session, f *os.File, remote, local string) error {
	for {
		tag, length, err := proto.ReadFrameHeader(sess)
		if err != nil {
			return err
		}

		switch tag {
		case proto.TagDONE:
			return nil
		case proto.TagDATA:
			chunk, err := proto.ReadPayload(sess, length, sess.ChunkSize())
			if err != nil {
				sess.Fail()
				return err
			}
			if _, err := f.Write(chunk); err != nil {
				return &syncerr.LocalIOError{Path: local, Cause: err}
			}
			sess.AddBytes(len(chunk))
			sess.Printf("%s", remote)
		case proto.TagFAIL:
			msg, err := proto.ReadPayload(sess, length, proto.MaxFailMessage)
			if err != nil {
				sess.Fail()
				return err
			}
			return &syncerr.RemoteFailure{From: remote, To: local, Message: string(msg)}
		default:
			sess.Fail()
			return &proto.ProtocolError{Want: proto.TagDATA, Got: tag}
		}
	}
}

