package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/dis6502/internal/instruction"
	"github.com/retroenv/dis6502/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoadTable(t *testing.T) {
	logger := log.NewTestLogger(t)

	table, err := LoadTable(logger, "")
	assert.NoError(t, err)
	assert.Equal(t, 151, table.Len())

	path := filepath.Join(t.TempDir(), "matrix.csv")
	data := "Opcode,Mnemonic,Mode,Bytes,Cycles,PageCross,Official,Flags,Description\n" +
		"A9,LDA,imm,2,2,,Y,NZ,Load accumulator with memory\n" +
		"02,KIL,imp,1,1,,N,,Halt\n"
	assert.NoError(t, os.WriteFile(path, []byte(data), 0600))

	table, err = LoadTable(logger, path)
	assert.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	mnemonic, ok := table.Mnemonic(0x02)
	assert.True(t, ok)
	assert.Equal(t, "KIL", mnemonic)

	_, err = LoadTable(logger, filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, instruction.ErrTableLoad))
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false, nil))
	assert.NotNil(t, CreateLogger(true, false, nil))
	assert.NotNil(t, CreateLogger(false, true, nil))
}

func testSessionLog(path string) *SessionLog {
	sessionLog := NewSessionLog(path, "dis6502 1.0.0")
	sessionLog.now = func() time.Time {
		return time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)
	}
	return sessionLog
}

func TestSessionLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dis6502.log")

	sessionLog := testSessionLog(path)
	logger := CreateLogger(false, false, sessionLog)
	logger.Debug("Options")
	logger.Info("Processing binary", log.String("file", "game.prg"))
	assert.NoError(t, sessionLog.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Log file for dis6502 1.0.0\nOn: 2026-10-19 12:30\n")
	assert.Contains(t, content, "Processing binary")
	assert.Contains(t, content, "game.prg")
	assert.NotContains(t, content, "Options")

	_, err = sessionLog.Write([]byte("late\n"))
	assert.True(t, errors.Is(err, os.ErrClosed))

	// a new session is appended with its own header
	sessionLog = testSessionLog(path)
	_, err = sessionLog.Write([]byte("second session\n"))
	assert.NoError(t, err)
	assert.NoError(t, sessionLog.Close())

	data, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Log file for"))
	assert.True(t, strings.HasSuffix(string(data), "second session\n"))
}

func TestSessionLogUnused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dis6502.log")

	sessionLog := testSessionLog(path)
	assert.NoError(t, sessionLog.Close())

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSessionLogOpenError(t *testing.T) {
	sessionLog := testSessionLog(t.TempDir())
	_, err := sessionLog.Write([]byte("message\n"))
	assert.ErrorContains(t, err, "opening log file")
}

func TestLogOptions(t *testing.T) {
	opts := options.Program{
		Parameters: options.Parameters{Input: "game.prg", Output: "-"},
		Flags:      options.Flags{Header: true},
	}
	LogOptions(log.NewTestLogger(t), opts)
}
