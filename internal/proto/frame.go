package proto

import (
	"fmt"
	"io"
)

// readExact reads len(buf) bytes or reports a short read. io.ReadFull
// already treats a partial read as io.ErrUnexpectedEOF; we just label it.
func readExact(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("short read: %w", err)
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readExact(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(buf[:]), nil
}

func putU32(buf []byte, v uint32) {
	byteOrder.PutUint32(buf, v)
}

// ReadTag reads a bare 4-byte tag, the first word of every frame.
func ReadTag(r io.Reader) (Tag, error) {
	v, err := readU32(r)
	if err != nil {
		return 0, fmt.Errorf("read tag: %w", err)
	}
	return Tag(v), nil
}

// WriteRequest writes tag + 4-byte length + body as a single Write call.
// This covers every "tag, length, variable bytes" frame on the wire: LIST,
// RECV, SEND, STAT (request direction), and DATA.
func WriteRequest(w io.Writer, tag Tag, body []byte) error {
	buf := make([]byte, 8+len(body))
	putU32(buf[0:4], uint32(tag))
	putU32(buf[4:8], uint32(len(body))) //nolint:gosec // G115: body length bounded by callers before this is reached
	copy(buf[8:], body)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", tag, err)
	}
	return nil
}

// WriteDone writes a DONE frame. mtime is overloaded on the wire: it is the
// file's mtime terminating a SEND/RECV body, and unused (pass 0) terminating
// a LIST stream.
func WriteDone(w io.Writer, mtime uint32) error {
	var buf [8]byte
	putU32(buf[0:4], uint32(TagDONE))
	putU32(buf[4:8], mtime)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write DONE: %w", err)
	}
	return nil
}

// WriteOkay writes an OKAY status frame.
func WriteOkay(w io.Writer) error {
	var buf [8]byte
	putU32(buf[0:4], uint32(TagOKAY))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write OKAY: %w", err)
	}
	return nil
}

// WriteFail writes a FAIL status frame carrying msg. Used by test fakes
// standing in for the remote peer; the real client never sends FAIL.
func WriteFail(w io.Writer, msg string) error {
	return WriteRequest(w, TagFAIL, []byte(msg))
}

// WriteStatResp writes a STAT response (mode, size, time), no payload.
// Used by test fakes standing in for the remote peer.
func WriteStatResp(w io.Writer, mode, size, mtime uint32) error {
	buf := make([]byte, 16)
	putU32(buf[0:4], uint32(TagSTAT))
	putU32(buf[4:8], mode)
	putU32(buf[8:12], size)
	putU32(buf[12:16], mtime)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write STAT response: %w", err)
	}
	return nil
}

// WriteDirEnt writes a DENT frame for one directory entry.
func WriteDirEnt(w io.Writer, mode, size, mtime uint32, name string) error {
	if len(name) > MaxNameLen {
		return errTooLong("dirent name", len(name), MaxNameLen)
	}
	buf := make([]byte, 20+len(name))
	putU32(buf[0:4], uint32(TagDENT))
	putU32(buf[4:8], mode)
	putU32(buf[8:12], size)
	putU32(buf[12:16], mtime)
	putU32(buf[16:20], uint32(len(name))) //nolint:gosec // G115: bounded by MaxNameLen check above
	copy(buf[20:], name)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write DENT: %w", err)
	}
	return nil
}

// WriteListDone writes the DONE frame that terminates a LIST response
// stream (mtime field unused).
func WriteListDone(w io.Writer) error {
	return WriteDone(w, 0)
}
