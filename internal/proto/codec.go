package proto

import (
	"fmt"
	"io"
)

// WriteSmallFile writes a SEND header, a DATA header+payload, and a DONE
// header in one Write call. Only valid when data fits under the session's
// negotiated chunk size; the caller is responsible for that check — this
// function only enforces the protocol-wide path bound.
//
// Mirrors the reference implementation's SendSmallFile, which notes that
// combining header, payload, and footer into a single write makes "a huge
// difference" to throughput versus three separate writes.
func WriteSmallFile(w io.Writer, pathAndMode string, data []byte, mtime uint32) error {
	if len(pathAndMode) > MaxPathLen {
		return errTooLong("path_and_mode", len(pathAndMode), MaxPathLen)
	}

	total := 8 + len(pathAndMode) + 8 + len(data) + 8
	buf := make([]byte, total)
	p := 0

	putU32(buf[p:p+4], uint32(TagSEND))
	putU32(buf[p+4:p+8], uint32(len(pathAndMode))) //nolint:gosec // G115: bounded by MaxPathLen check above
	p += 8
	copy(buf[p:], pathAndMode)
	p += len(pathAndMode)

	putU32(buf[p:p+4], uint32(TagDATA))
	putU32(buf[p+4:p+8], uint32(len(data))) //nolint:gosec // G115: data length bounded by caller (must be < max chunk)
	p += 8
	copy(buf[p:], data)
	p += len(data)

	putU32(buf[p:p+4], uint32(TagDONE))
	putU32(buf[p+4:p+8], mtime)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write small file: %w", err)
	}
	return nil
}

// ReadStatus reads a status frame following a file body: OKAY means
// success, FAIL's message becomes a *RemoteFailure, any other tag is a
// *ProtocolError.
func ReadStatus(r io.Reader) error {
	tag, err := ReadTag(r)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	length, err := readU32(r)
	if err != nil {
		return fmt.Errorf("read status length: %w", err)
	}

	switch tag {
	case TagOKAY:
		return nil
	case TagFAIL:
		if length > MaxFailMessage {
			return errTooLong("FAIL message", int(length), MaxFailMessage)
		}
		msg := make([]byte, length)
		if err := readExact(r, msg); err != nil {
			return fmt.Errorf("read FAIL message: %w", err)
		}
		return &RemoteFailure{Message: string(msg)}
	default:
		return &ProtocolError{Want: TagOKAY, Got: tag}
	}
}

// DirEnt is one entry returned by a LIST response.
type DirEnt struct {
	Name  string
	Mode  uint32
	Size  uint32
	Mtime uint32
}

// ReadDirEnt reads one DENT frame, or detects the DONE frame terminating
// the LIST stream (done=true, zero value otherwise).
func ReadDirEnt(r io.Reader) (entry DirEnt, done bool, err error) {
	tag, err := ReadTag(r)
	if err != nil {
		return DirEnt{}, false, fmt.Errorf("read dirent tag: %w", err)
	}

	if tag == TagDONE {
		// DONE's overloaded field carries no meaning here; still consume it.
		if _, err := readU32(r); err != nil {
			return DirEnt{}, false, fmt.Errorf("read list-done trailer: %w", err)
		}
		return DirEnt{}, true, nil
	}
	if tag != TagDENT {
		return DirEnt{}, false, &ProtocolError{Want: TagDENT, Got: tag}
	}

	mode, err := readU32(r)
	if err != nil {
		return DirEnt{}, false, fmt.Errorf("read dirent mode: %w", err)
	}
	size, err := readU32(r)
	if err != nil {
		return DirEnt{}, false, fmt.Errorf("read dirent size: %w", err)
	}
	mtime, err := readU32(r)
	if err != nil {
		return DirEnt{}, false, fmt.Errorf("read dirent time: %w", err)
	}
	nameLen, err := readU32(r)
	if err != nil {
		return DirEnt{}, false, fmt.Errorf("read dirent name length: %w", err)
	}
	if nameLen > MaxNameLen {
		return DirEnt{}, false, errTooLong("dirent name", int(nameLen), MaxNameLen)
	}

	name := make([]byte, nameLen)
	if err := readExact(r, name); err != nil {
		return DirEnt{}, false, fmt.Errorf("read dirent name: %w", err)
	}

	return DirEnt{Name: string(name), Mode: mode, Size: size, Mtime: mtime}, false, nil
}

// StatResult is the decoded body of a STAT response.
type StatResult struct {
	Mode  uint32
	Size  uint32
	Mtime uint32
}

// ReadStat reads a STAT response frame. The length field is repurposed as
// the mode on the wire per the tag table; callers that issued a STAT
// request call this to decode the paired response.
func ReadStat(r io.Reader) (StatResult, error) {
	tag, err := ReadTag(r)
	if err != nil {
		return StatResult{}, fmt.Errorf("read stat tag: %w", err)
	}
	if tag != TagSTAT {
		return StatResult{}, &ProtocolError{Want: TagSTAT, Got: tag}
	}

	mode, err := readU32(r)
	if err != nil {
		return StatResult{}, fmt.Errorf("read stat mode: %w", err)
	}
	size, err := readU32(r)
	if err != nil {
		return StatResult{}, fmt.Errorf("read stat size: %w", err)
	}
	mtime, err := readU32(r)
	if err != nil {
		return StatResult{}, fmt.Errorf("read stat time: %w", err)
	}

	return StatResult{Mode: mode, Size: size, Mtime: mtime}, nil
}

// ReadFrameHeader reads a DATA/DONE frame header during a file body
// transfer. Any other tag is a protocol error — the caller decides whether
// to also treat it as a remote failure (RECV allows a FAIL-shaped message
// to ride in on an unexpected tag).
func ReadFrameHeader(r io.Reader) (tag Tag, length uint32, err error) {
	tag, err = ReadTag(r)
	if err != nil {
		return 0, 0, fmt.Errorf("read data header: %w", err)
	}
	length, err = readU32(r)
	if err != nil {
		return 0, 0, fmt.Errorf("read data length: %w", err)
	}
	return tag, length, nil
}

// ReadPayload reads exactly length bytes, enforcing max as the caller's
// negotiated chunk ceiling.
func ReadPayload(r io.Reader, length, max uint32) ([]byte, error) {
	if length > max {
		return nil, errTooLong("DATA chunk", int(length), int(max))
	}
	buf := make([]byte, length)
	if err := readExact(r, buf); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return buf, nil
}
