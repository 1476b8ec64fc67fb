// Package config handles application configuration and setup
package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/retroenv/dis6502/internal/instruction"
	"github.com/retroenv/dis6502/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings. Records are
// written to the console and, if set, to the session log.
func CreateLogger(debug, quiet bool, sessionLog io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	if sessionLog != nil {
		cfg.Output = io.MultiWriter(os.Stdout, sessionLog)
	}
	return log.NewWithConfig(cfg)
}

// LogOptions logs the program options as JSON at debug level.
func LogOptions(logger *log.Logger, opts options.Program) {
	data, err := json.Marshal(opts)
	if err != nil {
		logger.Error("Encoding options failed", log.Err(err))
		return
	}
	logger.Debug("Options", log.String("options", string(data)))
}

// LoadTable loads the instruction table from the given opcode matrix file or
// the embedded table if no file is given. Differences of the table to the
// official 6502 opcodes are logged as warnings.
func LoadTable(logger *log.Logger, path string) (*instruction.Table, error) {
	var table *instruction.Table
	var err error

	if path == "" {
		table, err = instruction.Default()
	} else {
		table, err = instruction.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	source := path
	if source == "" {
		source = "embedded"
	}
	logger.Debug("Instruction table loaded",
		log.String("source", source),
		log.Int("opcodes", table.Len()))

	mismatches := instruction.CheckReference(table)
	for _, m := range mismatches {
		logger.Debug("Instruction table difference",
			log.Hex("opcode", m.Opcode),
			log.String("difference", m.Kind.String()),
			log.String("table", m.Table),
			log.String("official", m.Want))
	}
	if len(mismatches) > 0 {
		logger.Warn("Instruction table differs from official 6502 opcodes",
			log.String("source", source),
			log.Int("differences", len(mismatches)))
	}

	return table, nil
}
