package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const sessionSeparatorWidth = 78

// SessionLog is a log file that the records of a run are appended to.
// The file is opened on the first write, which also writes a session
// header. Writes go directly to the file.
type SessionLog struct {
	path  string
	title string
	now   func() time.Time

	mu     sync.Mutex
	file   *os.File
	closed bool
}

// NewSessionLog returns a session log for the given file. The title is
// written into the session header.
func NewSessionLog(path, title string) *SessionLog {
	return &SessionLog{
		path:  path,
		title: title,
		now:   time.Now,
	}
}

// Write appends p to the log file.
func (s *SessionLog) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("writing log file %s: %w", s.path, os.ErrClosed)
	}
	if s.file == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}

	n, err := s.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing log file %s: %w", s.path, err)
	}
	return n, nil
}

func (s *SessionLog) open() error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	separator := strings.Repeat("*", sessionSeparatorWidth)
	header := fmt.Sprintf("\n%s\nLog file for %s\nOn: %s\n%s\n\n",
		separator, s.title, s.now().Format("2006-01-02 15:04"), separator)
	if _, err := file.WriteString(header); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing log file header: %w", err)
	}

	s.file = file
	return nil
}

// Close closes the log file. Later writes fail.
func (s *SessionLog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("closing log file %s: %w", s.path, err)
	}
	return nil
}
