package operand

import (
	"errors"
	"testing"

	"github.com/retroenv/dis6502/internal/instruction"
	"github.com/retroenv/retrogolib/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		mode     instruction.Mode
		mnemonic string
		operand  []byte
		expected string
	}{
		{"accumulator", instruction.Accumulator, "ASL", nil, "ASL A"},
		{"absolute", instruction.Absolute, "JMP", []byte{0x00, 0xC0}, "JMP $C000"},
		{"absolute x", instruction.AbsoluteX, "LDA", []byte{0x34, 0x12}, "LDA $1234, X"},
		{"absolute y", instruction.AbsoluteY, "STA", []byte{0x00, 0x00}, "STA $0000, Y"},
		{"immediate", instruction.Immediate, "LDA", []byte{0x05}, "LDA #$05"},
		{"implied", instruction.Implied, "BRK", nil, "BRK"},
		{"indirect", instruction.Indirect, "JMP", []byte{0xFC, 0xFF}, "JMP ($FFFC)"},
		{"indirect x", instruction.IndirectX, "ORA", []byte{0x20}, "ORA ($20, X)"},
		{"indirect y", instruction.IndirectY, "STA", []byte{0x0A}, "STA ($0A), Y"},
		{"relative", instruction.Relative, "BNE", []byte{0xFB}, "BNE $FB"},
		{"zero page", instruction.ZeroPage, "LDA", []byte{0x00}, "LDA $00"},
		{"zero page x", instruction.ZeroPageX, "INC", []byte{0x80}, "INC $80, X"},
		{"zero page y", instruction.ZeroPageY, "LDX", []byte{0xFF}, "LDX $FF, Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Format(tt.mode, tt.mnemonic, tt.operand)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, text)

			// formatting is deterministic
			again, err := Format(tt.mode, tt.mnemonic, tt.operand)
			assert.NoError(t, err)
			assert.Equal(t, text, again)
		})
	}
}

func TestFormatterForEveryMode(t *testing.T) {
	for _, mode := range instruction.Modes() {
		_, ok := formatters[mode]
		assert.True(t, ok, mode.String())

		_, err := Parameter(mode, make([]byte, mode.OperandBytes()))
		assert.NoError(t, err)
	}
}

func TestFormatOperandSize(t *testing.T) {
	tests := []struct {
		name    string
		mode    instruction.Mode
		operand []byte
	}{
		{"implied with operand", instruction.Implied, []byte{0x01}},
		{"immediate without operand", instruction.Immediate, nil},
		{"absolute with one byte", instruction.Absolute, []byte{0x01}},
		{"zero page with two bytes", instruction.ZeroPage, []byte{0x01, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.mode, "NOP", tt.operand)
			assert.True(t, errors.Is(err, ErrOperandSize))
		})
	}

	_, err := Format(instruction.Mode(42), "NOP", nil)
	assert.ErrorContains(t, err, "unsupported addressing mode")
}

func TestHexValues(t *testing.T) {
	assert.Equal(t, "$05", Byte(0x05))
	assert.Equal(t, "$00", Byte(0x00))
	assert.Equal(t, "$FF", Byte(0xFF))
	assert.Equal(t, "$0000", Word(0x0000))
	assert.Equal(t, "$0800", LittleEndian([]byte{0x00, 0x08}))
	assert.Equal(t, "$1234", LittleEndian([]byte{0x34, 0x12}))
}
