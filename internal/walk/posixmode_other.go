//go:build !unix

package walk

import "os"

// posixMode has no raw stat structure to read on non-unix hosts, so it
// approximates POSIX type bits from os.FileMode instead.
func posixMode(fi os.FileInfo) uint32 {
	return fallbackMode(fi)
}
