package transfer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonsync/filesync/internal/progress"
	"github.com/halcyonsync/filesync/internal/proto"
	"github.com/halcyonsync/filesync/internal/session"
	"github.com/halcyonsync/filesync/internal/syncerr"
	"github.com/halcyonsync/filesync/internal/transfer"
)

type fakeStream struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (f *fakeStream) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeStream) Write(p []byte) (int, error) { return f.out.Write(p) }
func (f *fakeStream) Close() error                { return nil }

func TestSendFileSmallWritesSingleSequence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), 0o644))

	resp := &bytes.Buffer{}
	require.NoError(t, proto.WriteOkay(resp))
	fs := &fakeStream{in: resp, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{})

	err := transfer.SendFile(sess, local, "/data/a.txt", proto.ModeReg|0o644, 1000)
	require.NoError(t, err)

	tag, err := proto.ReadTag(fs.out)
	require.NoError(t, err)
	assert.Equal(t, proto.TagSEND, tag)
	assert.Equal(t, uint64(5), sess.TotalBytes())
}

func TestSendFileLargeStreamsChunks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(local, []byte("0123456789"), 0o644))

	resp := &bytes.Buffer{}
	require.NoError(t, proto.WriteOkay(resp))
	fs := &fakeStream{in: resp, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{}, session.WithChunkSize(4))

	err := transfer.SendFile(sess, local, "/data/big.bin", proto.ModeReg|0o644, 2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), sess.TotalBytes())

	tag, err := proto.ReadTag(fs.out)
	require.NoError(t, err)
	assert.Equal(t, proto.TagSEND, tag)
}

func TestSendFileRejectsUnsupportedMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "dev")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o644))

	fs := &fakeStream{in: &bytes.Buffer{}, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{})

	err := transfer.SendFile(sess, local, "/data/dev", 0o020000|0o644, 0)
	var unsupported *syncerr.UnsupportedMode
	require.ErrorAs(t, err, &unsupported)
}

func TestSendFileSurfacesRemoteFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o644))

	resp := &bytes.Buffer{}
	require.NoError(t, proto.WriteFail(resp, "denied"))
	fs := &fakeStream{in: resp, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{})

	err := transfer.SendFile(sess, local, "/data/a.txt", proto.ModeReg|0o644, 0)
	var remoteFail *syncerr.RemoteFailure
	require.ErrorAs(t, err, &remoteFail)
	assert.Equal(t, "denied", remoteFail.Message)
}

func TestRecvFileWritesChunksAndReturnsOnDone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "out.txt")

	resp := &bytes.Buffer{}
	require.NoError(t, proto.WriteStatResp(resp, proto.ModeReg|0o644, 5, 1000))
	require.NoError(t, proto.WriteRequest(resp, proto.TagDATA, []byte("hello")))
	require.NoError(t, proto.WriteDone(resp, 1000))

	fs := &fakeStream{in: resp, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{})

	err := transfer.RecvFile(sess, "/remote/a.txt", local)
	require.NoError(t, err)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRecvFileFailsWhenRemoteMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "out.txt")

	resp := &bytes.Buffer{}
	require.NoError(t, proto.WriteStatResp(resp, 0, 0, 0))
	fs := &fakeStream{in: resp, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{})

	err := transfer.RecvFile(sess, "/remote/nope", local)
	var notFound *syncerr.RemoteNotFound
	require.ErrorAs(t, err, &notFound)
	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRecvFileUnlinksOnRemoteFail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "out.txt")

	resp := &bytes.Buffer{}
	require.NoError(t, proto.WriteStatResp(resp, proto.ModeReg|0o644, 5, 1000))
	require.NoError(t, proto.WriteFail(resp, "denied"))
	fs := &fakeStream{in: resp, out: &bytes.Buffer{}}
	sess := session.New(fs, progress.Nop{})

	err := transfer.RecvFile(sess, "/remote/a.txt", local)
	var remoteFail *syncerr.RemoteFailure
	require.ErrorAs(t, err, &remoteFail)

	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))
}
