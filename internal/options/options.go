// Package options contains the program options.
package options

import "github.com/retroenv/dis6502/internal/disasm"

// StdoutName is the output name that selects the console as output.
const StdoutName = "-"

// Parameters contains file path options.
type Parameters struct {
	Input  string `json:"input"`
	Output string `json:"output"` // default: input name with .asm extension
	Table  string `json:"table"`  // opcode matrix, default: embedded table
	Batch  string `json:"batch"`
}

// Flags contains behavior options.
type Flags struct {
	Header    bool   `json:"header"`
	Overwrite bool   `json:"overwrite"`
	Verify    bool   `json:"verify"`
	Debug     bool   `json:"debug"`
	Quiet     bool   `json:"quiet"`
	Profile   string `json:"profile"` // directory to write a CPU profile to
	LogFile   string `json:"logFile"` // session log file, appended to
	Version   bool   `json:"version"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	Offsets  bool `json:"offsets"`
	HexBytes bool `json:"hexBytes"`
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler returns the options for the decode loop.
func (p Program) Disassembler() disasm.Options {
	return disasm.Options{
		Header:         p.Header,
		OffsetComments: p.Offsets,
		HexComments:    p.HexBytes,
	}
}
