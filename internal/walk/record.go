// Package walk enumerates local and remote directory trees into a flat
// transfer plan: both variants (spec.md §4.D) produce the same Record shape
// through a shared Enumerator capability, so the planner and the transfer
// engine never need to know which side of the connection a Record came
// from.
package walk

import (
	"fmt"
	"os"

	"github.com/halcyonsync/filesync/internal/progress"
	"github.com/halcyonsync/filesync/internal/proto"
)

// Record is one file or symlink to push or pull. Directories are walked
// through but never themselves become a Record — they are recursed into,
// matching the reference implementation's separate dirlist/filelist split.
type Record struct {
	Src   string
	Dst   string
	Mode  uint32 // POSIX mode bits, including type
	Mtime int64  // seconds since epoch
	Size  int64
	Skip  bool
}

// PathAndMode encodes the protocol's "<remote_path>,<decimal_mode>" field.
func (r Record) PathAndMode() string {
	return fmt.Sprintf("%s,%d", r.Dst, r.Mode)
}

// Entry is one child returned by Enumerator.Enumerate: enough to decide
// whether to recurse (directory), emit a Record (regular/symlink), or skip
// with a progress line (anything else).
type Entry struct {
	Name  string
	Mode  uint32
	Size  int64
	Mtime int64
}

// Enumerator is the capability both the local and remote walkers implement,
// letting the recursive walk in Build be written once and run over either
// side (spec.md §9: "the walker ... [is] parametric over a
// DirectoryEnumerator capability").
type Enumerator interface {
	// Enumerate lists the immediate children of path.
	Enumerate(path string) ([]Entry, error)
}

// Build walks srcRoot (through enum) and dstRoot in lockstep, producing one
// Record per regular file or symlink found. Directories are recursed into
// but never emitted. Specials (device files, sockets, FIFOs, ...) are
// reported through sink and omitted.
func Build(enum Enumerator, srcRoot, dstRoot string, sink progress.Sink) ([]Record, error) {
	srcRoot = ensureTrailingSlash(srcRoot)
	dstRoot = ensureTrailingSlash(dstRoot)

	var records []Record
	if err := buildInto(enum, srcRoot, dstRoot, sink, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func buildInto(enum Enumerator, srcDir, dstDir string, sink progress.Sink, out *[]Record) error {
	entries, err := enum.Enumerate(srcDir)
	if err != nil {
		return err
	}

	var dirs []Entry
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		switch {
		case proto.IsDir(e.Mode):
			dirs = append(dirs, e)
		case len(srcDir+e.Name) > proto.MaxPathLen || len(dstDir+e.Name) > proto.MaxPathLen:
			sink.Print(fmt.Sprintf("skipping '%s': path exceeds %d bytes", srcDir+e.Name, proto.MaxPathLen), progress.Full)
		case proto.IsRegular(e.Mode) || proto.IsSymlink(e.Mode):
			*out = append(*out, Record{
				Src:   srcDir + e.Name,
				Dst:   dstDir + e.Name,
				Mode:  e.Mode,
				Mtime: e.Mtime,
				Size:  e.Size,
			})
		default:
			sink.Print(fmt.Sprintf("skipping special file '%s'", srcDir+e.Name), progress.Full)
		}
	}

	for _, d := range dirs {
		if err := buildInto(enum, srcDir+d.Name+"/", dstDir+d.Name+"/", sink, out); err != nil {
			return err
		}
	}
	return nil
}

func ensureTrailingSlash(p string) string {
	if p == "" || p[len(p)-1] == '/' {
		return p
	}
	return p + "/"
}

// PosixMode reconstructs the raw POSIX mode bits (type + permission) for a
// local FileInfo, the form the wire protocol carries. Go's os.FileMode
// encodes type differently from POSIX st_mode; platform-specific files in
// this package fill in the precise value from the host's raw stat
// structure where one is available.
func PosixMode(fi os.FileInfo) uint32 {
	return posixMode(fi)
}
