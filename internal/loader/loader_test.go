package loader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load binary file", func(t *testing.T) {
		data := []byte{0x00, 0x08, 0xA9, 0x05}
		tmpFile := createTempFile(t, data)

		input, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, tmpFile, input.Name)
		assert.Equal(t, data, input.Data)
		assert.Equal(t, 4, input.Size())

		read, err := io.ReadAll(input.Reader())
		assert.NoError(t, err)
		assert.Equal(t, data, read)

		assert.NoError(t, input.Close())
		assert.Nil(t, input.Data)
		assert.NoError(t, input.Close())
	})

	t.Run("load empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		input, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, 0, input.Size())
		assert.NoError(t, input.Close())
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.prg")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInputUnavailable))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("error on directory", func(t *testing.T) {
		_, err := New().Load(t.TempDir())
		assert.True(t, errors.Is(err, ErrInputUnavailable))
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.prg")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
