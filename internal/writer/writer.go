// Package writer implements the listing output of the disassembler.
package writer

import (
	"bufio"
	"fmt"
	"io"
)

// Writer writes listing lines to an underlying writer. Output is buffered,
// Flush has to be called after the last line.
type Writer struct {
	writer *bufio.Writer
}

// New creates a new writer.
func New(w io.Writer) *Writer {
	return &Writer{
		writer: bufio.NewWriter(w),
	}
}

// WriteLine writes a single line and terminates it with a newline.
func (w *Writer) WriteLine(line string) error {
	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
