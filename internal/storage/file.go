// Package storage reads and writes todo.txt files and archives completed
// records.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"todo/internal/todotxt"
)

// Op names the phase a persistence failure happened in.
type Op string

const (
	OpRead          Op = "read"
	OpWrite         Op = "write"
	OpArchiveAppend Op = "archive-append"
)

// PersistenceError carries the file and phase of a failed I/O operation.
type PersistenceError struct {
	Path string
	Op   Op
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Load reads every non-blank line of path as a record. A missing file is an
// empty list. The first malformed line aborts the load.
func Load(path string) ([]*todotxt.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &PersistenceError{Path: path, Op: OpRead, Err: err}
	}
	return ParseLines(path, string(data))
}

// ParseLines parses text the way Load does. name only labels errors.
func ParseLines(name, text string) ([]*todotxt.Record, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []*todotxt.Record
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := todotxt.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Rewrite truncates path and writes one canonical line per record.
func Rewrite(path string, records []*todotxt.Record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &PersistenceError{Path: path, Op: OpWrite, Err: err}
	}
	if err := writeLines(f, records); err != nil {
		f.Close()
		return &PersistenceError{Path: path, Op: OpWrite, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PersistenceError{Path: path, Op: OpWrite, Err: err}
	}
	return nil
}

func writeLines(f *os.File, records []*todotxt.Record) error {
	w := bufio.NewWriter(f)
	for _, r := range records {
		if _, err := w.WriteString(r.String() + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Sink receives archived records.
type Sink interface {
	Append(records []*todotxt.Record) error
	Close() error
}

// FileSink appends records to a todo.txt file, creating it if needed.
// Existing content is never truncated.
type FileSink struct {
	Path string
}

func (s *FileSink) Append(records []*todotxt.Record) error {
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &PersistenceError{Path: s.Path, Op: OpArchiveAppend, Err: err}
	}
	if err := writeLines(f, records); err != nil {
		f.Close()
		return &PersistenceError{Path: s.Path, Op: OpArchiveAppend, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PersistenceError{Path: s.Path, Op: OpArchiveAppend, Err: err}
	}
	return nil
}

func (s *FileSink) Close() error { return nil }

// OpenSink picks the archive backend from the path: .db, .sqlite and
// .sqlite3 go to SQLite, anything else is a todo.txt file.
func OpenSink(path string) (Sink, error) {
	switch {
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"), strings.HasSuffix(path, ".sqlite3"):
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return &FileSink{Path: path}, nil
	}
}

// Partition splits records into incomplete and completed, keeping the
// relative order inside each half.
func Partition(records []*todotxt.Record) (kept, done []*todotxt.Record) {
	for _, r := range records {
		if r.Completed {
			done = append(done, r)
		} else {
			kept = append(kept, r)
		}
	}
	return kept, done
}

// Archive moves completed records from the source file to sink. The sink is
// appended before the source is rewritten; neither step is rolled back if
// the other fails.
func Archive(path string, sink Sink, records []*todotxt.Record) (kept, done []*todotxt.Record, err error) {
	kept, done = Partition(records)
	if err := sink.Append(done); err != nil {
		return nil, nil, err
	}
	if err := Rewrite(path, kept); err != nil {
		return nil, nil, err
	}
	return kept, done, nil
}
