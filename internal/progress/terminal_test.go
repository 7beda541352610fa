package progress_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halcyonsync/filesync/internal/progress"
)

func TestTerminalNonTTYCommitsEveryLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := progress.NewTerminal(&buf, 0) // fd 0 on a buffer is never a TTY

	sink.Print("50%", progress.Elide)
	sink.Print("100%", progress.Elide)
	sink.Print("error: boom", progress.Full)

	assert.Equal(t, "50%\n100%\nerror: boom\n", buf.String())
}

func TestTerminalFlushNoopWithoutPendingLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := progress.NewTerminal(&buf, 0)
	sink.Flush()
	assert.Empty(t, buf.String())
}
