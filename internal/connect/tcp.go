package connect

import (
	"fmt"
	"net"
	"time"

	"github.com/halcyonsync/filesync/internal/stream"
)

// TCP returns a stream.Connector that dials addr (host:port) once. Each
// call yields a new connection; the core opens exactly one per session.
func TCP(addr string, timeout time.Duration) stream.Connector {
	return func() (stream.Stream, error) {
		conn, err := net.DialTimeout("tcp", addr, timeout)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		return netConnStream{conn}, nil
	}
}
