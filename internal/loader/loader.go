// Package loader handles loading of binary input files.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ErrInputUnavailable is wrapped by all errors of inputs that can not be opened or read.
var ErrInputUnavailable = errors.New("input unavailable")

// Input is the content of a loaded binary file. The data is memory mapped
// and only valid until Close is called.
type Input struct {
	Name string
	Data []byte

	file    *os.File
	mapping mmap.MMap
}

// Loader handles loading binary files from disk.
type Loader struct{}

// New creates a new binary file loader.
func New() *Loader {
	return &Loader{}
}

// Load maps the given file read-only into memory.
func (l *Loader) Load(path string) (*Input, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening file %s: %w", ErrInputUnavailable, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: reading file info of %s: %w", ErrInputUnavailable, path, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputUnavailable, path)
	}

	input := &Input{
		Name: path,
		file: file,
	}

	// empty files can not be mapped
	if info.Size() == 0 {
		return input, nil
	}

	mapping, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: mapping file %s: %w", ErrInputUnavailable, path, err)
	}
	input.mapping = mapping
	input.Data = mapping
	return input, nil
}

// Reader returns a reader for the input data.
func (i *Input) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// Size returns the size of the input in bytes.
func (i *Input) Size() int {
	return len(i.Data)
}

// Close unmaps the data and closes the file.
func (i *Input) Close() error {
	var errs []error
	if i.mapping != nil {
		if err := i.mapping.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmapping file: %w", err))
		}
		i.mapping = nil
	}
	if i.file != nil {
		if err := i.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing file: %w", err))
		}
		i.file = nil
	}
	i.Data = nil
	return errors.Join(errs...)
}
