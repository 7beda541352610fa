package walk

import (
	"os"
	"path/filepath"
)

// Local enumerates a directory on the host filesystem, implementing
// Enumerator via os.ReadDir and os.Lstat (never following a symlink into
// its target, matching the reference implementation's treatment of
// symlinks as leaves rather than traversal points).
type Local struct{}

// Enumerate lists path's immediate children using Lstat, so symlinks report
// as symlinks rather than whatever they point to.
func (Local) Enumerate(path string) ([]Entry, error) {
	names, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, d := range names {
		fi, err := os.Lstat(filepath.Join(path, d.Name()))
		if err != nil {
			// A file that vanished between ReadDir and Lstat (common under a
			// concurrently-modified tree) is simply omitted, matching the
			// reference walker's best-effort snapshot semantics.
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		entries = append(entries, Entry{
			Name:  d.Name(),
			Mode:  PosixMode(fi),
			Size:  fi.Size(),
			Mtime: fi.ModTime().Unix(),
		})
	}
	return entries, nil
}
