// Package connect supplies concrete stream.Connector implementations: the
// "external collaborator" spec.md §6 requires from its embedder
// ("a function connect() → (Stream, Error)"). The core never imports this
// package directly — cmd/filesync wires one of these into a session at
// startup.
package connect

import (
	"net"

	"github.com/halcyonsync/filesync/internal/stream"
)

// netConnStream adapts a net.Conn to stream.Stream; net.Conn already
// satisfies the interface structurally, but tcp.go and unix.go return this
// wrapper so the connector's return type doesn't leak net.Conn's wider
// surface (SetDeadline and friends) into the core.
type netConnStream struct {
	net.Conn
}

var _ stream.Stream = netConnStream{}
