// Package instruction provides the 6502 instruction table that maps a
// control byte to its opcode definition.
package instruction

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrTableLoad is wrapped by all errors returned while loading a table.
var ErrTableLoad = errors.New("loading instruction table")

// Column indexes of an opcode matrix record.
const (
	columnOpcode = iota
	columnMnemonic
	columnMode
	columnBytes
	columnCycles
	columnPageCross
	columnOfficial
	columnFlags
	columnDescription

	minimumColumns
)

// MaxLength is the maximum length of an instruction including the control byte.
const MaxLength = 3

//go:embed opcodes.csv
var defaultMatrix []byte

// Definition describes a single opcode of the instruction set.
type Definition struct {
	Opcode      byte
	Mnemonic    string
	Mode        Mode
	Length      int // total length including the control byte
	Cycles      int
	Flags       string // processor status flags affected
	Description string
}

// Table maps control bytes to opcode definitions. It is read-only after
// being loaded and safe for concurrent use.
type Table struct {
	entries [256]*Definition
	count   int
}

// Default returns the table of the official 6502 opcodes that is
// embedded in the binary.
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultMatrix))
}

// LoadFile loads an opcode matrix from the given file.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening file '%s': %w", ErrTableLoad, path, err)
	}
	defer func() { _ = file.Close() }()

	return Load(file)
}

// Load reads an opcode matrix. The first line is a header row and is
// discarded, every following line describes one opcode. Any malformed
// record fails the whole load.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrTableLoad)
		}
		return nil, fmt.Errorf("%w: reading header row: %w", ErrTableLoad, err)
	}

	t := &Table{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading record: %w", ErrTableLoad, err)
		}
		line, _ := reader.FieldPos(0)

		def, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrTableLoad, line, err)
		}
		if t.entries[def.Opcode] != nil {
			return nil, fmt.Errorf("%w: line %d: opcode $%02X is defined twice", ErrTableLoad, line, def.Opcode)
		}
		t.entries[def.Opcode] = def
		t.count++
	}

	if t.count == 0 {
		return nil, fmt.Errorf("%w: no opcodes defined", ErrTableLoad)
	}
	return t, nil
}

func parseRecord(record []string) (*Definition, error) {
	if len(record) < minimumColumns {
		return nil, fmt.Errorf("record has %d fields, expected at least %d", len(record), minimumColumns)
	}

	key := strings.TrimSpace(record[columnOpcode])
	key = strings.TrimPrefix(key, "$")
	key = strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	opcode, err := strconv.ParseUint(key, 16, 8)
	if err != nil {
		return nil, fmt.Errorf("parsing opcode '%s': %w", record[columnOpcode], err)
	}

	mnemonic := strings.TrimSpace(record[columnMnemonic])
	if mnemonic == "" {
		return nil, errors.New("empty mnemonic")
	}

	mode, err := ParseMode(strings.TrimSpace(record[columnMode]))
	if err != nil {
		return nil, err
	}

	length, err := strconv.Atoi(strings.TrimSpace(record[columnBytes]))
	if err != nil {
		return nil, fmt.Errorf("parsing byte length: %w", err)
	}
	if length < 1 || length > MaxLength {
		return nil, fmt.Errorf("byte length %d out of range", length)
	}
	if length-1 != mode.OperandBytes() {
		return nil, fmt.Errorf("byte length %d does not match %s addressing", length, mode)
	}

	cycles, err := strconv.Atoi(strings.TrimSpace(record[columnCycles]))
	if err != nil {
		return nil, fmt.Errorf("parsing cycles: %w", err)
	}
	if cycles < 1 {
		return nil, fmt.Errorf("invalid cycle count %d", cycles)
	}

	return &Definition{
		Opcode:      byte(opcode),
		Mnemonic:    strings.ToUpper(mnemonic),
		Mode:        mode,
		Length:      length,
		Cycles:      cycles,
		Flags:       strings.TrimSpace(record[columnFlags]),
		Description: strings.TrimSpace(record[columnDescription]),
	}, nil
}

// Lookup returns the definition of the control byte. The returned bool is
// false if the byte is not a legal opcode.
func (t *Table) Lookup(b byte) (Definition, bool) {
	def := t.entries[b]
	if def == nil {
		return Definition{}, false
	}
	return *def, true
}

// IsLegal returns whether the control byte has a definition.
func (t *Table) IsLegal(b byte) bool {
	return t.entries[b] != nil
}

// InstructionLength returns the length of the instruction including the
// control byte.
func (t *Table) InstructionLength(b byte) (int, bool) {
	def, ok := t.Lookup(b)
	return def.Length, ok
}

// Mnemonic returns the instruction name of the control byte.
func (t *Table) Mnemonic(b byte) (string, bool) {
	def, ok := t.Lookup(b)
	return def.Mnemonic, ok
}

// Description returns the textual description of the control byte.
func (t *Table) Description(b byte) (string, bool) {
	def, ok := t.Lookup(b)
	return def.Description, ok
}

// AddressingMode returns the addressing mode of the control byte.
func (t *Table) AddressingMode(b byte) (Mode, bool) {
	def, ok := t.Lookup(b)
	return def.Mode, ok
}

// Cycles returns the base cycle count of the control byte.
func (t *Table) Cycles(b byte) (int, bool) {
	def, ok := t.Lookup(b)
	return def.Cycles, ok
}

// Flags returns the processor status flags affected by the control byte.
func (t *Table) Flags(b byte) (string, bool) {
	def, ok := t.Lookup(b)
	return def.Flags, ok
}

// Len returns the number of defined opcodes.
func (t *Table) Len() int {
	return t.count
}

// Opcodes returns all defined opcodes in ascending order.
func (t *Table) Opcodes() []byte {
	opcodes := make([]byte, 0, t.count)
	for i, def := range t.entries {
		if def != nil {
			opcodes = append(opcodes, byte(i))
		}
	}
	return opcodes
}
