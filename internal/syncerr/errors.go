// Package syncerr holds the concrete error types for the conceptual error
// kinds spec.md §7 names. The types that carry an underlying cause
// (ConnectFailed, LocalIOError) expose it through Unwrap so errors.Is/As
// keep working through the dispatcher's batch-continuation logic.
package syncerr

import "fmt"

// ConnectFailed means the embedder's Connector refused to produce a Stream.
type ConnectFailed struct {
	Cause error
}

func (e *ConnectFailed) Error() string { return fmt.Sprintf("connect failed: %v", e.Cause) }
func (e *ConnectFailed) Unwrap() error { return e.Cause }

// PathTooLong is a client-side precondition violation, raised before any
// frame is written.
type PathTooLong struct {
	Path string
	Max  int
}

func (e *PathTooLong) Error() string {
	return fmt.Sprintf("path too long: %d bytes (max %d): %s", len(e.Path), e.Max, e.Path)
}

// LocalIOError wraps an open/read/write/stat failure on the host filesystem.
type LocalIOError struct {
	Path  string
	Cause error
}

func (e *LocalIOError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Cause) }
func (e *LocalIOError) Unwrap() error { return e.Cause }

// RemoteFailure carries a verbatim message the peer sent in a FAIL frame.
type RemoteFailure struct {
	From, To string
	Message  string
}

func (e *RemoteFailure) Error() string {
	return fmt.Sprintf("failed to copy '%s' to '%s': %s", e.From, e.To, e.Message)
}

// UnsupportedMode is raised for a local file that is neither regular nor a
// symlink (device, socket, FIFO, ...).
type UnsupportedMode struct {
	Path string
	Mode uint32
}

func (e *UnsupportedMode) Error() string {
	return fmt.Sprintf("local file '%s' has unsupported mode: 0o%o", e.Path, e.Mode)
}

// NotADirectory means destination semantics (trailing slash, multi-source
// batch) required a directory target and didn't get one.
type NotADirectory struct {
	Path string
}

func (e *NotADirectory) Error() string {
	return fmt.Sprintf("target '%s' is not a directory", e.Path)
}

// RemoteNotFound means a STAT for a requested source came back with mode
// zero.
type RemoteNotFound struct {
	Path string
}

func (e *RemoteNotFound) Error() string {
	return fmt.Sprintf("remote object '%s' does not exist", e.Path)
}
