// Package newtags records date-like metadata tags that are not part of the
// canonical capture date fields, so the priority list can be tuned later.
package newtags

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/quidome/exif2mtime-go/pkg/metadata"
)

// DefaultPath is the log file name, relative to the working directory.
const DefaultPath = "newtags.txt"

// Log is an append-only sink. Each tag becomes one "<name>: <value>" line.
//
// Log is safe for concurrent use; every Append is a single write to a file
// opened with O_APPEND.
type Log struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// Open opens (or creates) the log at path for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tag log: %w", err)
	}
	return &Log{w: f}, nil
}

// Append writes tags to the log.
func (l *Log) Append(tags ...metadata.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	var b strings.Builder
	for _, t := range tags {
		// Values can span lines in XMP; keep one tag per line.
		v := strings.ReplaceAll(t.Value, "\n", " ")
		fmt.Fprintf(&b, "%s: %s\n", t.Name, v)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return os.ErrClosed
	}
	if _, err := io.WriteString(l.w, b.String()); err != nil {
		return fmt.Errorf("append tag log: %w", err)
	}
	return nil
}

// Close closes the underlying file. Further appends fail with os.ErrClosed.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return nil
	}
	err := l.w.Close()
	l.w = nil
	return err
}
