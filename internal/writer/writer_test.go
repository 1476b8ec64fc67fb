package writer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	assert.NoError(t, w.WriteLine("*= $0800"))
	assert.NoError(t, w.WriteLine("     BRK"))
	assert.Equal(t, "", buf.String())

	assert.NoError(t, w.Flush())
	assert.Equal(t, "*= $0800\n     BRK\n", buf.String())
}

func TestWriterFlushError(t *testing.T) {
	w := New(errWriter{})
	assert.NoError(t, w.WriteLine("     NOP"))
	assert.ErrorContains(t, w.Flush(), "closed")
}
