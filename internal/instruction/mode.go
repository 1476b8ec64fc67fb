package instruction

import "fmt"

// Mode is the addressing mode of an opcode. It determines the number of
// operand bytes that follow the control byte and how they are rendered.
type Mode uint8

// Addressing modes of the 6502 instruction set.
const (
	Accumulator Mode = iota
	Absolute
	AbsoluteX
	AbsoluteY
	Immediate
	Implied
	Indirect
	IndirectX
	IndirectY
	Relative
	ZeroPage
	ZeroPageX
	ZeroPageY

	modeCount
)

type modeInfo struct {
	tag          string
	name         string
	operandBytes int
}

var modes = [modeCount]modeInfo{
	Accumulator: {tag: "acc", name: "accumulator", operandBytes: 0},
	Absolute:    {tag: "abs", name: "absolute", operandBytes: 2},
	AbsoluteX:   {tag: "abs-x", name: "absolute,x", operandBytes: 2},
	AbsoluteY:   {tag: "abs-y", name: "absolute,y", operandBytes: 2},
	Immediate:   {tag: "imm", name: "immediate", operandBytes: 1},
	Implied:     {tag: "imp", name: "implied", operandBytes: 0},
	Indirect:    {tag: "ind", name: "indirect", operandBytes: 2},
	IndirectX:   {tag: "ind-x", name: "indirect,x", operandBytes: 1},
	IndirectY:   {tag: "ind-y", name: "indirect,y", operandBytes: 1},
	Relative:    {tag: "rel", name: "relative", operandBytes: 1},
	ZeroPage:    {tag: "zp", name: "zero page", operandBytes: 1},
	ZeroPageX:   {tag: "zp-x", name: "zero page,x", operandBytes: 1},
	ZeroPageY:   {tag: "zp-y", name: "zero page,y", operandBytes: 1},
}

var modeByTag = func() map[string]Mode {
	m := make(map[string]Mode, len(modes))
	for i, info := range modes {
		m[info.tag] = Mode(i)
	}
	return m
}()

// ParseMode returns the addressing mode for the given opcode matrix tag,
// for example "abs-x" or "imm".
func ParseMode(tag string) (Mode, error) {
	mode, ok := modeByTag[tag]
	if !ok {
		return 0, fmt.Errorf("unknown addressing mode tag '%s'", tag)
	}
	return mode, nil
}

// Modes returns all addressing modes.
func Modes() []Mode {
	all := make([]Mode, 0, modeCount)
	for i := range modeCount {
		all = append(all, i)
	}
	return all
}

// Valid returns whether the mode is one of the defined addressing modes.
func (m Mode) Valid() bool {
	return m < modeCount
}

// OperandBytes returns the number of bytes following the control byte.
func (m Mode) OperandBytes() int {
	if !m.Valid() {
		return 0
	}
	return modes[m].operandBytes
}

// Tag returns the opcode matrix tag of the mode.
func (m Mode) Tag() string {
	if !m.Valid() {
		return ""
	}
	return modes[m].tag
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modes[m].name
}
