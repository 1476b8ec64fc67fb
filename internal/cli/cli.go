// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/dis6502/internal/options"
)

// ParseFlags parses the command line arguments, without the program name,
// and returns the program options.
func ParseFlags(args []string) (options.Program, error) {
	flags := flag.NewFlagSet("dis6502", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(args)
	positional := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if opts.Version {
		return opts, nil
	}
	if len(positional) == 0 && opts.Batch == "" {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, positional); err != nil {
		return opts, err
	}

	if opts.Batch == "" {
		opts.Input = positional[0]
		if len(positional) > 1 {
			if opts.Output != "" {
				return opts, &UsageError{flags: flags, msg: "output file given as flag and as argument"}
			}
			opts.Output = positional[1]
		}
	} else if len(positional) > 0 {
		return opts, &UsageError{flags: flags, msg: "input files can not be passed in batch mode"}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information and all flags to stdout.
func (e *UsageError) ShowUsage() {
	e.flags.SetOutput(os.Stdout)
	fmt.Printf("usage: dis6502 [options] <input> [output]\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	if len(args) > 2 {
		return &UsageError{flags: flags, msg: "too many arguments, expected <input> [output]"}
	}
	for i, arg := range args {
		if i > 0 && len(arg) > 1 && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Input = strings.TrimSpace(opts.Input)
	opts.Output = strings.TrimSpace(opts.Output)

	if opts.Debug && opts.Quiet {
		return fmt.Errorf("options -debug and -q can not be combined")
	}
	if opts.Batch != "" && opts.Output != "" && opts.Output != options.StdoutName {
		return fmt.Errorf("an output file can not be used in batch mode")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file, '-' prints to console (default: input name with .asm extension)")
	flags.StringVar(&opts.Table, "t", "", "name of a .csv opcode matrix file to use instead of the built-in 6502 table")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .asm file naming, for example *.prg")
	flags.BoolVar(&opts.Header, "h", false, "binary has a 2 byte location header (Commodore etc.)")
	flags.BoolVar(&opts.Header, "header", false, "binary has a 2 byte location header (Commodore etc.)")
	flags.BoolVar(&opts.Overwrite, "f", false, "overwrite an existing output file")
	flags.BoolVar(&opts.Overwrite, "overwrite", false, "overwrite an existing output file")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by reassembling it and comparing it to the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.StringVar(&opts.Profile, "profile", "", "write a CPU profile to the given directory")
	flags.StringVar(&opts.LogFile, "log", "", "append all log messages of the session to the given file")
	flags.BoolVar(&opts.Version, "version", false, "print the version and exit")
	flags.BoolVar(&opts.Offsets, "offsets", false, "output addresses as comments")
	flags.BoolVar(&opts.HexBytes, "hex", false, "output instruction bytes as hex values in comments")
}
