// Package ratelimit wraps an io.Reader/io.Writer in a token-bucket
// throughput cap, shared across both directions of a session's stream
// (spec.md's domain-stack bandwidth limiting).
package ratelimit

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewLimiter creates a rate.Limiter capping aggregate throughput to
// bytesPerSec, bursting up to one second's worth of traffic (or the whole
// cap itself, if that's smaller) so ordinary chunk-sized writes pass
// through without unnecessary blocking.
func NewLimiter(bytesPerSec int) *rate.Limiter {
	burst := bytesPerSec
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// Reader wraps an io.Reader and enforces a shared rate limit across reads.
type Reader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

// NewReader wraps r so reads are throttled by limiter under ctx.
func NewReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) *Reader {
	return &Reader{r: r, limiter: limiter, ctx: ctx}
}

func (rl *Reader) Read(p []byte) (int, error) {
	n, err := rl.r.Read(p)
	if n > 0 {
		if waitErr := rl.limiter.WaitN(rl.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// Writer wraps an io.Writer and enforces a shared rate limit across writes.
type Writer struct {
	w       io.Writer
	limiter *rate.Limiter
	ctx     context.Context
}

// NewWriter wraps w so writes are throttled by limiter under ctx.
func NewWriter(ctx context.Context, w io.Writer, limiter *rate.Limiter) *Writer {
	return &Writer{w: w, limiter: limiter, ctx: ctx}
}

func (rw *Writer) Write(p []byte) (int, error) {
	if err := rw.limiter.WaitN(rw.ctx, len(p)); err != nil {
		return 0, err
	}
	return rw.w.Write(p)
}
