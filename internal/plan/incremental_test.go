package plan_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsync/filesync/internal/plan"
	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/walk"
)

type loopback struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (l *loopback) Read(p []byte) (int, error)  { return l.in.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.out.Write(p) }

func TestAnnotateSkipsMatchingRegularFile(t *testing.T) {
	t.Parallel()

	var resp bytes.Buffer
	require.NoError(t, proto.WriteStatResp(&resp, proto.ModeReg|0o644, 100, 500))
	rw := &loopback{in: &resp, out: &bytes.Buffer{}}

	records := []walk.Record{{Dst: "/data/a", Mode: proto.ModeReg | 0o644, Size: 100, Mtime: 500}}
	out, err := plan.Annotate(rw, records)
	require.NoError(t, err)
	assert.True(t, out[0].Skip)
}

func TestAnnotateDoesNotSkipOnSizeMismatch(t *testing.T) {
	t.Parallel()

	var resp bytes.Buffer
	require.NoError(t, proto.WriteStatResp(&resp, proto.ModeReg|0o644, 99, 500))
	rw := &loopback{in: &resp, out: &bytes.Buffer{}}

	records := []walk.Record{{Dst: "/data/a", Mode: proto.ModeReg | 0o644, Size: 100, Mtime: 500}}
	out, err := plan.Annotate(rw, records)
	require.NoError(t, err)
	assert.False(t, out[0].Skip)
}

func TestAnnotateSymlinkAllowsNewerRemote(t *testing.T) {
	t.Parallel()

	var resp bytes.Buffer
	require.NoError(t, proto.WriteStatResp(&resp, proto.ModeLnk|0o777, 3, 600))
	rw := &loopback{in: &resp, out: &bytes.Buffer{}}

	records := []walk.Record{{Dst: "/data/link", Mode: proto.ModeLnk | 0o777, Size: 3, Mtime: 500}}
	out, err := plan.Annotate(rw, records)
	require.NoError(t, err)
	assert.True(t, out[0].Skip)
}

func TestAnnotateTypeMismatchFallsBackToStrictComparison(t *testing.T) {
	t.Parallel()

	// Remote is a symlink but the local entry is a regular file with the
	// same size and a strictly newer remote mtime. If classification used
	// remote.Mode alone, the relaxed symlink rule (remote.Mtime >= rec.Mtime)
	// would wrongly skip this; combining both sides' type bits forces the
	// stricter exact-match rule, which correctly does not skip.
	var resp bytes.Buffer
	require.NoError(t, proto.WriteStatResp(&resp, proto.ModeLnk|0o777, 3, 600))
	rw := &loopback{in: &resp, out: &bytes.Buffer{}}

	records := []walk.Record{{Dst: "/data/a", Mode: proto.ModeReg | 0o644, Size: 3, Mtime: 500}}
	out, err := plan.Annotate(rw, records)
	require.NoError(t, err)
	assert.False(t, out[0].Skip)
}

func TestAnnotateDoesNotSkipWhenRemoteMissing(t *testing.T) {
	t.Parallel()

	var resp bytes.Buffer
	require.NoError(t, proto.WriteStatResp(&resp, 0, 0, 0))
	rw := &loopback{in: &resp, out: &bytes.Buffer{}}

	records := []walk.Record{{Dst: "/data/a", Mode: proto.ModeReg | 0o644, Size: 100, Mtime: 500}}
	out, err := plan.Annotate(rw, records)
	require.NoError(t, err)
	assert.False(t, out[0].Skip)
}

func TestAnnotatePipelinesAllRequestsBeforeReadingAnyResponse(t *testing.T) {
	t.Parallel()

	var resp bytes.Buffer
	for i := 0; i < 3; i++ {
		require.NoError(t, proto.WriteStatResp(&resp, proto.ModeReg|0o644, 1, 1))
	}
	rw := &loopback{in: &resp, out: &bytes.Buffer{}}

	records := []walk.Record{
		{Dst: "/a", Mode: proto.ModeReg, Size: 1, Mtime: 1},
		{Dst: "/b", Mode: proto.ModeReg, Size: 1, Mtime: 1},
		{Dst: "/c", Mode: proto.ModeReg, Size: 1, Mtime: 1},
	}
	_, err := plan.Annotate(rw, records)
	require.NoError(t, err)

	for _, want := range []string{"/a", "/b", "/c"} {
		tag, err := proto.ReadTag(rw.out)
		require.NoError(t, err)
		assert.Equal(t, proto.TagSTAT, tag)
		length, err := readLen(rw.out)
		require.NoError(t, err)
		got := make([]byte, length)
		_, err = rw.out.Read(got)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func readLen(r *bytes.Buffer) (uint32, error) {
	var buf [4]byte
	if _, err := r.Read(buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}
