// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/dis6502/internal/disasm"
	"github.com/retroenv/dis6502/internal/instruction"
	"github.com/retroenv/dis6502/internal/loader"
	"github.com/retroenv/dis6502/internal/options"
	"github.com/retroenv/dis6502/internal/verification"
	"github.com/retroenv/dis6502/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ErrOutputExists is returned if the output file exists and overwriting is not enabled.
var ErrOutputExists = errors.New("output file already exists")

// ProcessFile handles the complete file processing workflow
// If no output is set, the output file name is derived from the input file name.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, table *instruction.Table) error {
	if opts.Output == "" {
		opts.Output = GenerateOutputFilename(opts.Input)
	}
	if err := checkOutput(opts); err != nil {
		return err
	}

	input, err := loader.New().Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}
	defer func() { _ = input.Close() }()

	logger.Info("Processing binary",
		log.String("file", opts.Input),
		log.Int("size", input.Size()),
		log.String("output", outputDescription(opts.Output)))

	output, closeOutput, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() { _ = closeOutput() }()

	var listing bytes.Buffer
	destination := output
	if opts.Verify {
		destination = io.MultiWriter(output, &listing)
	}

	result, err := Disassemble(ctx, logger, table, opts.Disassembler(), input.Reader(), destination)
	if err != nil {
		discardOutput(logger, opts, closeOutput)
		return err
	}
	logResult(logger, opts, result)

	if err := closeOutput(); err != nil {
		discardOutput(logger, opts, closeOutput)
		return fmt.Errorf("closing output file: %w", err)
	}

	if opts.Verify {
		if err := verification.VerifyOutput(logger, table, input.Data, &listing); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return nil
}

// Disassemble decodes the input and writes the listing to the output.
func Disassemble(ctx context.Context, logger *log.Logger, table *instruction.Table,
	disasmOptions disasm.Options, input io.Reader, output io.Writer) (disasm.Result, error) {

	lines := writer.New(output)
	dis := disasm.New(logger, table, disasmOptions)

	result, err := dis.Process(ctx, input, lines)
	if flushErr := lines.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		return result, fmt.Errorf("disassembling: %w", err)
	}
	return result, nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + ".asm"
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("dis6502 - 6502 disassembler",
		log.String("version", buildinfo.Version(version, commit, date)))
}

func checkOutput(opts options.Program) error {
	if opts.Output == options.StdoutName {
		return nil
	}
	if filepath.Clean(opts.Output) == filepath.Clean(opts.Input) {
		return fmt.Errorf("output file '%s' is the input file", opts.Output)
	}
	if opts.Overwrite {
		return nil
	}

	_, err := os.Stat(opts.Output)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s, use -overwrite to replace it", ErrOutputExists, opts.Output)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking output file %s: %w", opts.Output, err)
	}
}

// createWriter returns the output writer and a function to close it. The
// close function can be called multiple times.
func createWriter(opts options.Program) (io.Writer, func() error, error) {
	if opts.Output == options.StdoutName {
		return os.Stdout, func() error { return nil }, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}

	var closed bool
	closeFile := func() error {
		if closed {
			return nil
		}
		closed = true
		return file.Close()
	}
	return file, closeFile, nil
}

// discardOutput closes and removes an incomplete output file, so that a
// later run does not fail on the existing file.
func discardOutput(logger *log.Logger, opts options.Program, closeOutput func() error) {
	_ = closeOutput()
	if opts.Output == options.StdoutName {
		return
	}
	if err := os.Remove(opts.Output); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Removing incomplete output file failed",
			log.String("file", opts.Output),
			log.Err(err))
	}
}

func logResult(logger *log.Logger, opts options.Program, result disasm.Result) {
	illegal := result.Count(disasm.IllegalOpcode)
	truncated := result.Count(disasm.TruncatedStream)

	if result.HasOrigin {
		logger.Info("Disassembled",
			log.String("file", opts.Input),
			log.Hex("origin", result.Origin),
			log.Int("instructions", result.Instructions),
			log.Int("bytes", result.Bytes),
			log.Int("lines", result.Lines))
	} else {
		logger.Info("Disassembled",
			log.String("file", opts.Input),
			log.Int("instructions", result.Instructions),
			log.Int("bytes", result.Bytes),
			log.Int("lines", result.Lines))
	}

	if illegal > 0 || truncated > 0 {
		logger.Warn("Input contains undecodable bytes",
			log.String("file", opts.Input),
			log.Int("illegal_opcodes", illegal),
			log.Int("truncated_instructions", truncated))
	}
}

func outputDescription(output string) string {
	if output == options.StdoutName {
		return "console"
	}
	return output
}
