// Package operand renders the operand bytes of an instruction as assembly text.
package operand

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/dis6502/internal/instruction"
)

// ErrOperandSize is returned when the number of operand bytes does not
// match the addressing mode.
var ErrOperandSize = errors.New("operand size does not match addressing mode")

type formatterFunc func(operand []byte) string

var formatters = map[instruction.Mode]formatterFunc{
	instruction.Accumulator: formatAccumulator,
	instruction.Absolute:    formatAbsolute,
	instruction.AbsoluteX:   formatAbsoluteX,
	instruction.AbsoluteY:   formatAbsoluteY,
	instruction.Immediate:   formatImmediate,
	instruction.Implied:     formatImplied,
	instruction.Indirect:    formatIndirect,
	instruction.IndirectX:   formatIndirectX,
	instruction.IndirectY:   formatIndirectY,
	instruction.Relative:    formatRelative,
	instruction.ZeroPage:    formatZeroPage,
	instruction.ZeroPageX:   formatZeroPageX,
	instruction.ZeroPageY:   formatZeroPageY,
}

// Format returns the instruction text for the mnemonic and its operand bytes,
// for example "LDA #$05" or "STA ($20), Y".
func Format(mode instruction.Mode, mnemonic string, operand []byte) (string, error) {
	param, err := Parameter(mode, operand)
	if err != nil {
		return "", err
	}
	if param == "" {
		return mnemonic, nil
	}
	return mnemonic + " " + param, nil
}

// Parameter returns the operand text of an instruction. It is empty for
// implied addressing.
func Parameter(mode instruction.Mode, operand []byte) (string, error) {
	fun, ok := formatters[mode]
	if !ok {
		return "", fmt.Errorf("unsupported addressing mode %s", mode)
	}
	if len(operand) != mode.OperandBytes() {
		return "", fmt.Errorf("%w: %s expects %d bytes, got %d",
			ErrOperandSize, mode, mode.OperandBytes(), len(operand))
	}
	return fun(operand), nil
}

// Byte returns a single byte as hex value, for example "$05".
func Byte(b byte) string {
	return fmt.Sprintf("$%02X", b)
}

// Word returns a 16 bit value as hex value, for example "$0800".
func Word(w uint16) string {
	return fmt.Sprintf("$%04X", w)
}

// LittleEndian decodes a two byte little-endian address as hex value.
func LittleEndian(operand []byte) string {
	return Word(binary.LittleEndian.Uint16(operand))
}

func formatAccumulator([]byte) string {
	return "A"
}

func formatImplied([]byte) string {
	return ""
}

func formatImmediate(operand []byte) string {
	return "#" + Byte(operand[0])
}

func formatAbsolute(operand []byte) string {
	return LittleEndian(operand)
}

func formatAbsoluteX(operand []byte) string {
	return LittleEndian(operand) + ", X"
}

func formatAbsoluteY(operand []byte) string {
	return LittleEndian(operand) + ", Y"
}

func formatIndirect(operand []byte) string {
	return "(" + LittleEndian(operand) + ")"
}

func formatIndirectX(operand []byte) string {
	return "(" + Byte(operand[0]) + ", X)"
}

func formatIndirectY(operand []byte) string {
	return "(" + Byte(operand[0]) + "), Y"
}

// formatRelative renders the raw branch offset byte, the target address
// is not resolved.
func formatRelative(operand []byte) string {
	return Byte(operand[0])
}

func formatZeroPage(operand []byte) string {
	return Byte(operand[0])
}

func formatZeroPageX(operand []byte) string {
	return Byte(operand[0]) + ", X"
}

func formatZeroPageY(operand []byte) string {
	return Byte(operand[0]) + ", Y"
}
