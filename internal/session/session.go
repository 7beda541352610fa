// Package session owns the single stream a sync run is conducted over: the
// running byte counter, the elapsed-time clock, and the progress sink the
// transfer engine reports through. Exactly one Session exists per
// connection (spec.md §5 — "a session is exclusively owned by its caller").
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/halcyonsync/filesync/internal/progress"
	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/ratelimit"
	"github.com/halcyonsync/filesync/internal/stream"
)

// Session wraps a stream.Stream with the bookkeeping every transfer needs:
// cumulative bytes moved, a start-of-session clock for throughput
// reporting, and the sink progress lines go through.
type Session struct {
	s                stream.Stream
	sink             progress.Sink
	chunkSize        uint32
	bandwidthLimited bool

	totalBytes uint64
	startTime  time.Time
	healthy    bool
	closed     bool
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithChunkSize overrides the default 64 KiB DATA chunk ceiling.
func WithChunkSize(n uint32) Option {
	return func(s *Session) { s.chunkSize = n }
}

// WithBandwidthLimit caps both reads and writes to bytesPerSec using a
// shared token-bucket limiter, composing with the byte counter below it
// without touching the wire protocol. Zero disables the cap.
func WithBandwidthLimit(bytesPerSec int) Option {
	return func(s *Session) {
		if bytesPerSec > 0 {
			limiter := ratelimit.NewLimiter(bytesPerSec)
			s.s = rateLimitedStream{
				Reader: ratelimit.NewReader(context.Background(), s.s, limiter),
				Writer: ratelimit.NewWriter(context.Background(), s.s, limiter),
				Closer: s.s,
			}
			s.bandwidthLimited = true
		}
	}
}

// rateLimitedStream composes a rate-limited Reader/Writer pair back into a
// stream.Stream, closing through the original stream.
type rateLimitedStream struct {
	*ratelimit.Reader
	*ratelimit.Writer
	io.Closer
}

// New creates a Session over an already-established stream. The stream is
// owned exclusively by the returned Session from this point on.
func New(s stream.Stream, sink progress.Sink, opts ...Option) *Session {
	sess := &Session{
		s:         s,
		sink:      sink,
		chunkSize: proto.DefaultMaxChunk,
		startTime: time.Now(),
		healthy:   true,
	}
	for _, opt := range opts {
		opt(sess)
	}
	slog.Debug("session opened", "chunk_size", sess.chunkSize, "bandwidth_limited", sess.bandwidthLimited)
	return sess
}

// ChunkSize returns the session's negotiated DATA chunk ceiling.
func (s *Session) ChunkSize() uint32 { return s.chunkSize }

// Sink returns the session's underlying progress sink, for collaborators
// (the walker) that need to report lines outside Session's own Print/Error
// vocabulary.
func (s *Session) Sink() progress.Sink { return s.sink }

// Read implements io.Reader so transfer/walk/plan code can treat a Session
// directly as the stream. When WithBandwidthLimit is set, s.s is itself a
// rate-limited stream, so throttling happens transparently below this.
func (s *Session) Read(p []byte) (int, error) {
	n, err := s.s.Read(p)
	if err != nil {
		s.healthy = false
	}
	return n, err
}

// Write implements io.Writer; see Read.
func (s *Session) Write(p []byte) (int, error) {
	n, err := s.s.Write(p)
	if err != nil {
		s.healthy = false
	}
	return n, err
}

// AddBytes records n bytes transferred in either direction toward the
// session-wide total (spec.md invariant 5: total_bytes is monotone and
// counts both directions).
func (s *Session) AddBytes(n int) {
	s.totalBytes += uint64(n) //nolint:gosec // G115: n is always a non-negative byte count
}

// TotalBytes returns the cumulative byte count across both directions.
func (s *Session) TotalBytes() uint64 { return s.totalBytes }

// Fail marks the session unhealthy, skipping the QUIT+drain on Close. Call
// this after any protocol-level error the transfer/walk/plan layers detect
// that isn't already surfaced through Read/Write (e.g. a bad tag).
func (s *Session) Fail() {
	slog.Warn("session marked unhealthy")
	s.healthy = false
}

// Print renders a transient, overwritable progress line.
func (s *Session) Print(line string) {
	s.sink.Print(line, progress.Elide)
}

// Printf is the formatted form of Print.
func (s *Session) Printf(format string, args ...any) {
	s.Print(fmt.Sprintf(format, args...))
}

// Error renders a permanent, "error: "-prefixed line.
func (s *Session) Error(format string, args ...any) {
	s.sink.Print("error: "+fmt.Sprintf(format, args...), progress.Full)
}

// TransferRate formats the session's cumulative throughput, or "" if
// nothing has moved yet.
func (s *Session) TransferRate() string {
	elapsed := time.Since(s.startTime)
	if s.totalBytes == 0 || elapsed <= 0 {
		return ""
	}
	secs := elapsed.Seconds()
	mbPerSec := (float64(s.totalBytes) / secs) / (1024 * 1024)
	return fmt.Sprintf(" %.1f MB/s (%d bytes in %.3fs)", mbPerSec, s.totalBytes, secs)
}

// Close issues a best-effort QUIT and drains the stream until the peer
// closes, provided the session is still healthy; on a prior error it closes
// immediately without sending anything, matching the reference
// implementation's destructor.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	slog.Debug("session closing", "healthy", s.healthy, "total_bytes", s.totalBytes)
	if s.healthy {
		if err := proto.WriteRequest(s.s, proto.TagQUIT, nil); err == nil {
			drainUntilEOF(s.s)
		} else {
			slog.Warn("failed to send quit", "error", err)
		}
	}
	return s.s.Close()
}

func drainUntilEOF(r io.Reader) {
	var buf [4096]byte
	for {
		_, err := r.Read(buf[:])
		if err != nil {
			return
		}
	}
}

