package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "game.prg")
	assert.NoError(t, os.WriteFile(input, []byte{0x00, 0x08, 0xA9, 0x05, 0x60}, 0600))
	logFile := filepath.Join(dir, "dis6502.log")

	err := run(context.Background(), []string{"-h", "-verify", "-log", logFile, input})
	assert.NoError(t, err)

	listing, err := os.ReadFile(filepath.Join(dir, "game.asm"))
	assert.NoError(t, err)
	assert.Equal(t, "*= $0800\n     LDA #$05\n     RTS\n", string(listing))

	sessionLog, err := os.ReadFile(logFile)
	assert.NoError(t, err)
	assert.Contains(t, string(sessionLog), "Log file for dis6502 dev")
	assert.Contains(t, string(sessionLog), "Verification successful")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"usage", nil},
		{"invalid flag combination", []string{"-debug", "-q", "game.prg"}},
		{"missing table", []string{"-t", filepath.Join(dir, "missing.csv"), "game.prg"}},
		{"missing input", []string{filepath.Join(dir, "missing.prg")}},
		{"empty batch", []string{"-batch", filepath.Join(dir, "*.prg")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.args))
		})
	}
}

func TestRunVersion(t *testing.T) {
	assert.NoError(t, run(context.Background(), []string{"-version"}))
}
