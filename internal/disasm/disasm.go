// Package disasm implements the sequential 6502 decode loop that turns a
// byte stream into an assembly listing.
package disasm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/dis6502/internal/instruction"
	"github.com/retroenv/dis6502/internal/operand"
	"github.com/retroenv/retrogolib/log"
)

// Indent is the prefix of every instruction line of the listing.
const Indent = "     "

const (
	headerSize       = 2
	commentAlignment = 20
	originDirective  = "*= "
	dataDirective    = ".BYTE "
)

// LineWriter receives the lines of the generated listing.
type LineWriter interface {
	WriteLine(line string) error
}

// Options controls the decoding and the listing output.
type Options struct {
	Header         bool // input starts with a 2 byte little-endian origin address
	OffsetComments bool // append the address of every instruction as comment
	HexComments    bool // append the raw instruction bytes as comment
}

// Instruction is a single decoded instruction.
type Instruction struct {
	Offset     int // position of the control byte in the stream
	Opcode     byte
	Operand    []byte
	Definition instruction.Definition
	Text       string
}

// Disasm decodes byte streams using an instruction table.
type Disasm struct {
	logger  *log.Logger
	table   *instruction.Table
	options Options
}

type state int

const (
	awaitHeader state = iota
	readOpcode
	readOperand
	emit
	done
)

// decoder holds the state of a single Process call.
type decoder struct {
	*Disasm

	ctx    context.Context
	reader *bufio.Reader
	sink   LineWriter
	result Result

	offset int // stream position of the next byte to read
	ins    Instruction
}

// New returns a new disassembler. The table is only read and can be shared
// between multiple disassemblers.
func New(logger *log.Logger, table *instruction.Table, options Options) *Disasm {
	return &Disasm{
		logger:  logger,
		table:   table,
		options: options,
	}
}

// Process decodes the stream until it is exhausted and writes one line per
// instruction to the sink. Illegal opcodes and a truncated final instruction
// are recorded as anomalies of the result and do not return an error.
// The context is checked between instructions.
func (dis *Disasm) Process(ctx context.Context, r io.Reader, sink LineWriter) (Result, error) {
	dec := &decoder{
		Disasm: dis,
		ctx:    ctx,
		reader: bufio.NewReader(r),
		sink:   sink,
	}

	st := readOpcode
	if dis.options.Header {
		st = awaitHeader
	}

	for st != done {
		var err error
		switch st {
		case awaitHeader:
			st, err = dec.readHeader()
		case readOpcode:
			st, err = dec.readOpcode()
		case readOperand:
			st, err = dec.readOperand()
		case emit:
			st, err = dec.emit()
		default:
			return dec.result, fmt.Errorf("invalid decoder state %d", st)
		}
		if err != nil {
			return dec.result, err
		}
	}

	dec.result.Bytes = dec.offset
	return dec.result, nil
}

func (dec *decoder) readHeader() (state, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(dec.reader, buf)
	dec.offset += n
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return done, fmt.Errorf("reading header: %w", err)
		}

		dec.result.Bytes = dec.offset
		dec.addAnomaly(TruncatedStream, 0, buf[:n])
		return done, &TruncatedStreamError{
			Offset:    0,
			Expected:  headerSize,
			Available: n,
			Header:    true,
		}
	}

	dec.result.Origin = uint16(buf[0]) | uint16(buf[1])<<8
	dec.result.HasOrigin = true

	line := originDirective + operand.Word(dec.result.Origin)
	if err := dec.writeLine(line); err != nil {
		return done, fmt.Errorf("writing origin directive: %w", err)
	}
	return readOpcode, nil
}

func (dec *decoder) readOpcode() (state, error) {
	if err := dec.ctx.Err(); err != nil {
		return done, err
	}

	b, err := dec.reader.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return done, nil
		}
		return done, fmt.Errorf("reading opcode at offset %d: %w", dec.offset, err)
	}

	dec.ins = Instruction{
		Offset: dec.offset,
		Opcode: b,
	}
	dec.offset++

	def, ok := dec.table.Lookup(b)
	if !ok {
		return dec.handleIllegalOpcode(b)
	}
	dec.ins.Definition = def
	return readOperand, nil
}

// handleIllegalOpcode outputs the control byte as data and continues with the next byte.
func (dec *decoder) handleIllegalOpcode(b byte) (state, error) {
	dec.addAnomaly(IllegalOpcode, dec.ins.Offset, []byte{b})
	dec.logger.Debug("Illegal opcode",
		log.Int("offset", dec.ins.Offset),
		log.Hex("opcode", b))

	text := dataDirective + operand.Byte(b)
	if err := dec.writeInstruction(text, []byte{b}, "illegal opcode"); err != nil {
		return done, err
	}
	return readOpcode, nil
}

func (dec *decoder) readOperand() (state, error) {
	count := dec.ins.Definition.Length - 1
	if count == 0 {
		return emit, nil
	}

	buf := make([]byte, count)
	n, err := io.ReadFull(dec.reader, buf)
	dec.offset += n
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return done, fmt.Errorf("reading operand at offset %d: %w", dec.ins.Offset+1, err)
		}

		data := append([]byte{dec.ins.Opcode}, buf[:n]...)
		dec.addAnomaly(TruncatedStream, dec.ins.Offset, data)
		dec.logger.Warn("Truncated instruction at end of input",
			log.Int("offset", dec.ins.Offset),
			log.String("instruction", dec.ins.Definition.Mnemonic),
			log.Int("expected", count),
			log.Int("available", n))
		return done, nil
	}

	dec.ins.Operand = buf
	return emit, nil
}

func (dec *decoder) emit() (state, error) {
	def := dec.ins.Definition
	text, err := operand.Format(def.Mode, def.Mnemonic, dec.ins.Operand)
	if err != nil {
		return done, fmt.Errorf("formatting instruction at offset %d: %w", dec.ins.Offset, err)
	}
	dec.ins.Text = text

	data := append([]byte{dec.ins.Opcode}, dec.ins.Operand...)
	if err := dec.writeInstruction(text, data, ""); err != nil {
		return done, err
	}
	dec.result.Instructions++
	return readOpcode, nil
}

// writeInstruction writes an indented listing line and appends the enabled comments.
func (dec *decoder) writeInstruction(text string, data []byte, note string) error {
	var comments []string
	if dec.options.OffsetComments {
		comments = append(comments, operand.Word(dec.address(dec.ins.Offset)))
	}
	if dec.options.HexComments {
		comments = append(comments, fmt.Sprintf("% X", data))
	}
	if note != "" {
		comments = append(comments, note)
	}

	line := Indent + text
	if len(comments) > 0 {
		line = fmt.Sprintf("%s%-*s ; %s", Indent, commentAlignment, text, strings.Join(comments, " "))
	}

	if err := dec.writeLine(line); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (dec *decoder) writeLine(line string) error {
	if err := dec.sink.WriteLine(line); err != nil {
		return err
	}
	dec.result.Lines++
	return nil
}

// address returns the address of a stream offset. If an origin header was
// read the address is relative to the origin, otherwise it is the offset.
func (dec *decoder) address(offset int) uint16 {
	if !dec.result.HasOrigin {
		return uint16(offset)
	}
	return dec.result.Origin + uint16(offset-headerSize)
}

func (dec *decoder) addAnomaly(kind AnomalyKind, offset int, data []byte) {
	dec.result.Anomalies = append(dec.result.Anomalies, Anomaly{
		Kind:   kind,
		Offset: offset,
		Data:   data,
	})
}
