package ratelimit_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsync/filesync/internal/ratelimit"
)

func TestWriterPassesBytesThrough(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	limiter := ratelimit.NewLimiter(1 << 20) // 1 MB/s, generous for a unit test
	w := ratelimit.NewWriter(context.Background(), &buf, limiter)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

func TestReaderPassesBytesThrough(t *testing.T) {
	t.Parallel()

	src := bytes.NewBufferString("hello")
	limiter := ratelimit.NewLimiter(1 << 20)
	r := ratelimit.NewReader(context.Background(), src, limiter)

	got := make([]byte, 5)
	n, err := r.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(got))
}

func TestWriterRespectsCanceledContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	limiter := ratelimit.NewLimiter(1) // 1 byte/sec, tiny burst
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	// Drain the burst, then a further write should fail fast once the
	// context expires rather than blocking for the full refill interval.
	// The write is one byte so it fits the burst and only the context
	// deadline can make it fail.
	_ = limiter.WaitN(context.Background(), 1)
	_, err := ratelimit.NewWriter(ctx, &buf, limiter).Write([]byte("a"))
	require.Error(t, err)
}
