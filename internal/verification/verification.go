// Package verification verifies that a generated listing recreates the input.
package verification

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/dis6502/internal/instruction"
	"github.com/retroenv/retrogolib/log"
)

// ErrMismatch is returned when the reassembled listing differs from the input.
var ErrMismatch = errors.New("output does not match input")

type operandPattern struct {
	prefix string
	suffix string
	digits int
	modes  []instruction.Mode
}

// operandPatterns matches the operand text of every addressing mode. Zero
// page and relative operands look the same and are resolved by the mnemonic.
var operandPatterns = []operandPattern{
	{prefix: "#$", digits: 2, modes: []instruction.Mode{instruction.Immediate}},
	{prefix: "($", suffix: ")", digits: 4, modes: []instruction.Mode{instruction.Indirect}},
	{prefix: "($", suffix: ", X)", digits: 2, modes: []instruction.Mode{instruction.IndirectX}},
	{prefix: "($", suffix: "), Y", digits: 2, modes: []instruction.Mode{instruction.IndirectY}},
	{prefix: "$", suffix: ", X", digits: 4, modes: []instruction.Mode{instruction.AbsoluteX}},
	{prefix: "$", suffix: ", Y", digits: 4, modes: []instruction.Mode{instruction.AbsoluteY}},
	{prefix: "$", suffix: ", X", digits: 2, modes: []instruction.Mode{instruction.ZeroPageX}},
	{prefix: "$", suffix: ", Y", digits: 2, modes: []instruction.Mode{instruction.ZeroPageY}},
	{prefix: "$", digits: 4, modes: []instruction.Mode{instruction.Absolute}},
	{prefix: "$", digits: 2, modes: []instruction.Mode{instruction.ZeroPage, instruction.Relative}},
}

type opcodeKey struct {
	mnemonic string
	mode     instruction.Mode
}

// Assembler converts listing lines back to bytes.
type Assembler struct {
	opcodes map[opcodeKey]byte
}

// NewAssembler returns an assembler for all opcodes of the table.
func NewAssembler(table *instruction.Table) *Assembler {
	a := &Assembler{
		opcodes: make(map[opcodeKey]byte, table.Len()),
	}
	for _, opcode := range table.Opcodes() {
		def, _ := table.Lookup(opcode)
		key := opcodeKey{mnemonic: def.Mnemonic, mode: def.Mode}
		if _, ok := a.opcodes[key]; !ok {
			a.opcodes[key] = opcode
		}
	}
	return a
}

// Assemble reads a listing and returns the bytes that it encodes. An origin
// directive is encoded as 2 byte little-endian header.
func (a *Assembler) Assemble(listing io.Reader) ([]byte, error) {
	var output []byte

	scanner := bufio.NewScanner(listing)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		data, err := a.assembleLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		output = append(output, data...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	return output, nil
}

func (a *Assembler) assembleLine(line string) ([]byte, error) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return nil, nil

	case strings.HasPrefix(line, "*="):
		value, err := parseHex(strings.TrimSpace(strings.TrimPrefix(line, "*=")), "$", 4)
		if err != nil {
			return nil, fmt.Errorf("parsing origin: %w", err)
		}
		return binary.LittleEndian.AppendUint16(nil, uint16(value)), nil

	case strings.HasPrefix(line, ".BYTE "):
		return parseDataBytes(strings.TrimPrefix(line, ".BYTE "))

	default:
		return a.assembleInstruction(line)
	}
}

func (a *Assembler) assembleInstruction(line string) ([]byte, error) {
	mnemonic, param, _ := strings.Cut(line, " ")
	mnemonic = strings.ToUpper(mnemonic)

	switch param {
	case "":
		return a.encode(mnemonic, instruction.Implied, nil)
	case "A":
		return a.encode(mnemonic, instruction.Accumulator, nil)
	}

	for _, pattern := range operandPatterns {
		if !strings.HasPrefix(param, pattern.prefix) || !strings.HasSuffix(param, pattern.suffix) {
			continue
		}
		value, err := parseHex(param[:len(param)-len(pattern.suffix)], pattern.prefix, pattern.digits)
		if err != nil {
			continue
		}

		operand := []byte{byte(value)}
		if pattern.digits == 4 {
			operand = binary.LittleEndian.AppendUint16(nil, uint16(value))
		}

		for _, mode := range pattern.modes {
			if data, err := a.encode(mnemonic, mode, operand); err == nil {
				return data, nil
			}
		}
	}

	return nil, fmt.Errorf("unsupported instruction '%s'", line)
}

func (a *Assembler) encode(mnemonic string, mode instruction.Mode, operand []byte) ([]byte, error) {
	opcode, ok := a.opcodes[opcodeKey{mnemonic: mnemonic, mode: mode}]
	if !ok {
		return nil, fmt.Errorf("unsupported instruction %s with %s addressing", mnemonic, mode)
	}
	return append([]byte{opcode}, operand...), nil
}

func parseDataBytes(s string) ([]byte, error) {
	var data []byte
	for _, field := range strings.Split(s, ",") {
		value, err := parseHex(strings.TrimSpace(field), "$", 2)
		if err != nil {
			return nil, fmt.Errorf("parsing data byte: %w", err)
		}
		data = append(data, byte(value))
	}
	return data, nil
}

func parseHex(s, prefix string, digits int) (uint64, error) {
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("missing prefix '%s' in '%s'", prefix, s)
	}
	s = s[len(prefix):]
	if len(s) != digits {
		return 0, fmt.Errorf("expected %d hex digits in '%s'", digits, s)
	}
	return strconv.ParseUint(s, 16, 16)
}

// VerifyOutput reassembles the listing and compares the result with the input.
func VerifyOutput(logger *log.Logger, table *instruction.Table, input []byte, listing io.Reader) error {
	output, err := NewAssembler(table).Assemble(listing)
	if err != nil {
		return fmt.Errorf("reassembling listing: %w", err)
	}
	return checkBufferEqual(logger, input, output)
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: mismatched lengths, %d != %d", ErrMismatch, len(input), len(output))
	}

	var diffs uint64
	firstDiff := -1
	for i := range input {
		if input[i] == output[i] {
			continue
		}
		diffs++
		if firstDiff == -1 {
			firstDiff = i
		}
		logger.Debug("Offset mismatch",
			log.Hex("offset", i),
			log.Hex("expected", input[i]),
			log.Hex("got", output[i]))
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d offset mismatches, first at offset %d", ErrMismatch, diffs, firstDiff)
}
