package walk

import (
	"io"

	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/syncerr"
)

// Remote enumerates a directory on the peer side of a connection by issuing
// a LIST request and draining DENT frames until DONE. Requests are strictly
// sequential — the reference protocol has no pipelined LIST, so a second
// LIST is never issued before the first one's DONE arrives (spec.md §5).
type Remote struct {
	RW io.ReadWriter
}

// Enumerate sends LIST for path and reads back its DENT stream.
func (r Remote) Enumerate(path string) ([]Entry, error) {
	if len(path) > proto.MaxPathLen {
		return nil, &syncerr.PathTooLong{Path: path, Max: proto.MaxPathLen}
	}
	if err := proto.WriteRequest(r.RW, proto.TagLIST, []byte(path)); err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		d, done, err := proto.ReadDirEnt(r.RW)
		if err != nil {
			return nil, err
		}
		if done {
			return entries, nil
		}
		entries = append(entries, Entry{
			Name:  d.Name,
			Mode:  d.Mode,
			Size:  int64(d.Size),
			Mtime: int64(d.Mtime),
		})
	}
}
