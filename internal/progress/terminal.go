package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Terminal is the default Sink: it elides by overwriting the current line
// with a carriage return, truncating to the terminal width the way the
// teacher's internal/ui/term.go measures it, and degrades ELIDE to
// one-line-per-call when the destination isn't a TTY.
type Terminal struct {
	w     io.Writer
	fd    uintptr
	isTTY bool

	mu      sync.Mutex
	lastLen int
}

// NewTerminal wraps w, which is written to for every Print call. fd should
// be the underlying file descriptor of w (e.g. os.Stderr.Fd()) so terminal
// width and TTY-ness can be detected; pass 0 if w is never a terminal.
func NewTerminal(w io.Writer, fd uintptr) *Terminal {
	return &Terminal{w: w, fd: fd, isTTY: fd != 0 && term.IsTerminal(int(fd))}
}

func (t *Terminal) width() int {
	wd, _, err := term.GetSize(int(t.fd))
	if err != nil || wd <= 0 {
		return 80
	}
	return wd
}

func (t *Terminal) Print(line string, mode Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mode == Full || !t.isTTY {
		// Commit a line. If a previous ELIDE line is still showing, clear
		// it first so the committed line doesn't trail stray characters.
		if t.isTTY && t.lastLen > 0 {
			fmt.Fprintf(t.w, "\r%s\r", strings.Repeat(" ", t.lastLen))
		}
		fmt.Fprintln(t.w, line)
		t.lastLen = 0
		return
	}

	// ELIDE on a TTY: overwrite in place, truncated to width, padded to
	// erase any longer previous line.
	truncated := truncate(line, t.width())
	pad := t.lastLen - len(truncated)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(t.w, "\r%s%s", truncated, strings.Repeat(" ", pad))
	t.lastLen = len(truncated)
}

// Flush commits whatever ELIDE line is currently showing, so later output
// (from another writer, or process exit) doesn't land mid-line.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastLen > 0 {
		fmt.Fprintln(t.w)
		t.lastLen = 0
	}
}

func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	return s[:width]
}
