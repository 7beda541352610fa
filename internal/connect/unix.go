package connect

import (
	"fmt"
	"net"

	"github.com/halcyonsync/filesync/internal/stream"
)

// Unix returns a stream.Connector that dials a Unix domain socket at path,
// for a daemon running on the same host as the client.
func Unix(path string) stream.Connector {
	return func() (stream.Stream, error) {
		conn, err := net.Dial("unix", path)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", path, err)
		}
		return netConnStream{conn}, nil
	}
}
