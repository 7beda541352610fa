// Package stream defines the byte-stream abstraction the protocol core runs
// on. The core never opens a connection itself — something outside the
// core (a Connector) must supply an already-established Stream.
package stream

import "io"

// Stream is a bidirectional byte stream with orderly close. The core treats
// it as opaque: a socket, a pipe, a multiplexed channel, or an in-memory
// buffer pair in tests all satisfy this interface identically.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer
}

// Connector opens a Stream. Everything about how the stream comes into
// being — dialing a socket, exec'ing a remote command over SSH, connecting
// to a Unix socket — lives outside the core and is reached through this
// single function type.
type Connector func() (Stream, error)
