package proto

import "fmt"

// ProtocolError reports a frame that violated the wire contract: an
// unexpected tag, or a length field outside the bounds in tags.go.
type ProtocolError struct {
	Want Tag
	Got  Tag
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("protocol error: %s", e.Detail)
	}
	return fmt.Sprintf("protocol error: expected %s, got %s", e.Want, e.Got)
}

// RemoteFailure is the decoded payload of a FAIL frame, surfaced verbatim.
type RemoteFailure struct {
	Message string
}

func (e *RemoteFailure) Error() string { return e.Message }

func errTooLong(field string, n, max int) error {
	return &ProtocolError{Detail: fmt.Sprintf("%s too long: %d (max %d)", field, n, max)}
}
