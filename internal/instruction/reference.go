package instruction

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// MismatchKind describes how a table entry differs from the reference CPU definition.
type MismatchKind int

// Mismatch kinds.
const (
	MissingOpcode MismatchKind = iota // official opcode not in the table
	ExtraOpcode                       // table opcode that is not an official opcode
	MnemonicMismatch
	ModeMismatch
)

func (k MismatchKind) String() string {
	switch k {
	case MissingOpcode:
		return "missing opcode"
	case ExtraOpcode:
		return "extra opcode"
	case MnemonicMismatch:
		return "mnemonic mismatch"
	case ModeMismatch:
		return "addressing mode mismatch"
	default:
		return fmt.Sprintf("mismatch(%d)", int(k))
	}
}

// Mismatch is a difference between a loaded table and the official 6502 opcode set.
type Mismatch struct {
	Opcode byte
	Kind   MismatchKind
	Table  string // value in the loaded table
	Want   string // value of the reference definition
}

var referenceModes = map[cpu6502.AddressingMode]Mode{
	cpu6502.AccumulatorAddressing: Accumulator,
	cpu6502.AbsoluteAddressing:    Absolute,
	cpu6502.AbsoluteXAddressing:   AbsoluteX,
	cpu6502.AbsoluteYAddressing:   AbsoluteY,
	cpu6502.ImmediateAddressing:   Immediate,
	cpu6502.ImpliedAddressing:     Implied,
	cpu6502.IndirectAddressing:    Indirect,
	cpu6502.IndirectXAddressing:   IndirectX,
	cpu6502.IndirectYAddressing:   IndirectY,
	cpu6502.RelativeAddressing:    Relative,
	cpu6502.ZeroPageAddressing:    ZeroPage,
	cpu6502.ZeroPageXAddressing:   ZeroPageX,
	cpu6502.ZeroPageYAddressing:   ZeroPageY,
}

// CheckReference compares the table against the official opcodes of the
// 6502 CPU definition and returns all differences. Unofficial opcodes of
// the reference, including the KIL/JAM halt opcodes, are ignored unless the
// table defines them.
func CheckReference(t *Table) []Mismatch {
	var mismatches []Mismatch

	for i := range 256 {
		b := byte(i)
		ref := cpu6502.Opcodes[b]
		official := isOfficial(ref)
		def, ok := t.Lookup(b)

		switch {
		case !ok && official:
			mismatches = append(mismatches, Mismatch{
				Opcode: b,
				Kind:   MissingOpcode,
				Want:   strings.ToUpper(ref.Instruction.Name),
			})

		case ok && !official:
			mismatches = append(mismatches, Mismatch{
				Opcode: b,
				Kind:   ExtraOpcode,
				Table:  def.Mnemonic,
			})

		case ok:
			mismatches = append(mismatches, compareDefinition(def, ref)...)
		}
	}

	return mismatches
}

// isOfficial reports whether the reference opcode is a documented 6502
// instruction. KIL is not flagged as unofficial by the reference.
func isOfficial(ref cpu6502.Opcode) bool {
	if ref.Instruction == nil || ref.Instruction == cpu6502.KilInst {
		return false
	}
	return !ref.Instruction.Unofficial
}

func compareDefinition(def Definition, ref cpu6502.Opcode) []Mismatch {
	var mismatches []Mismatch

	if !strings.EqualFold(def.Mnemonic, ref.Instruction.Name) {
		mismatches = append(mismatches, Mismatch{
			Opcode: def.Opcode,
			Kind:   MnemonicMismatch,
			Table:  def.Mnemonic,
			Want:   strings.ToUpper(ref.Instruction.Name),
		})
	}

	want, ok := referenceModes[ref.Addressing]
	if !ok || want != def.Mode {
		wantName := "unsupported"
		if ok {
			wantName = want.String()
		}
		mismatches = append(mismatches, Mismatch{
			Opcode: def.Opcode,
			Kind:   ModeMismatch,
			Table:  def.Mode.String(),
			Want:   wantName,
		})
	}

	return mismatches
}
