// Package main implements the main entry point for a 6502 binary disassembler
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/retroenv/dis6502/internal/cli"
	"github.com/retroenv/dis6502/internal/config"
	"github.com/retroenv/dis6502/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if err := run(app.Context(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run executes the disassembler with the given arguments. Errors are logged
// before they are returned.
func run(ctx context.Context, args []string) error {
	opts, err := cli.ParseFlags(args)
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet, nil)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			if msg := usageErr.Error(); msg != "" {
				fmt.Printf("%s\n\n", msg)
			}
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		return err
	}

	if opts.Version {
		fmt.Printf("dis6502 %s\n", buildinfo.Version(version, commit, date))
		return nil
	}

	var sessionOutput io.Writer
	if opts.LogFile != "" {
		sessionLog := config.NewSessionLog(opts.LogFile, "dis6502 "+version)
		defer func() { _ = sessionLog.Close() }()
		sessionOutput = sessionLog
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet, sessionOutput)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)
	config.LogOptions(logger, opts)

	if opts.Profile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.Profile), profile.Quiet).Stop()
	}

	table, err := config.LoadTable(logger, opts.Table)
	if err != nil {
		logger.Error("Loading instruction table failed", log.Err(err))
		return err
	}

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Error(err.Error())
		return err
	}

	var failed int
	for _, file := range files {
		opts.Input = file
		if opts.Batch != "" {
			opts.Output = fileprocessor.GenerateOutputFilename(file)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, opts, table); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return err
			}
			logger.Error("Disassembling failed", log.String("file", file), log.Err(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
