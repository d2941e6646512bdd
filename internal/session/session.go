// Package session runs one invocation against a task file: it loads the
// records once, applies list/add/complete/archive, and writes back.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"todo/internal/listing"
	"todo/internal/storage"
	"todo/internal/table"
	"todo/internal/todotxt"
)

// Column is the table column holding the task file's records.
const Column = "Todos"

var ErrNotFound = errors.New("todo not found")

// NotFoundError reports a completion query that matched no title and no id.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no todo with title or id %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type Options struct {
	SourcePath  string
	ArchivePath string
	// AutoID stamps id:<ULID> on added records that carry no id.
	AutoID bool
	Now    func() time.Time
	Logger *log.Logger
}

type Session struct {
	opts    Options
	tbl     *table.Table
	changed bool
}

// Open loads the source file. A missing file is an empty list.
func Open(opts Options) (*Session, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	records, err := storage.Load(opts.SourcePath)
	if err != nil {
		return nil, err
	}
	s := &Session{opts: opts}
	s.reset(records)
	opts.Logger.Debug("loaded todos", "path", opts.SourcePath, "count", len(records))
	return s, nil
}

func (s *Session) reset(records []*todotxt.Record) {
	s.tbl = table.New("")
	_ = s.tbl.AddColumn(Column)
	for _, r := range records {
		_ = s.tbl.AddRecord(r, Column)
	}
}

// Records returns the records in file order.
func (s *Session) Records() []*todotxt.Record {
	recs, _ := s.tbl.Column(Column)
	return recs
}

// List returns the sorted and filtered listing.
func (s *Session) List(f listing.Filter) []*todotxt.Record {
	return listing.List(s.Records(), f, s.opts.Now())
}

func (s *Session) Now() time.Time { return s.opts.Now() }

// Add parses text and appends it to the task list.
func (s *Session) Add(text string) (*todotxt.Record, error) {
	r, err := todotxt.Parse(text)
	if err != nil {
		return nil, err
	}
	if s.opts.AutoID {
		if _, ok := r.Meta(todotxt.KeyID); !ok {
			r.AddTag(todotxt.KeyID, s.newID())
		}
	}
	if err := s.tbl.AddRecord(r, Column); err != nil {
		return nil, err
	}
	s.changed = true
	s.opts.Logger.Debug("added todo", "todo", r.String())
	return r, nil
}

func (s *Session) newID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(s.opts.Now()), entropy)
	if err != nil {
		return fmt.Sprintf("%d", s.opts.Now().UnixNano())
	}
	return id.String()
}

// Complete marks the first record whose title equals query as done, falling
// back to the first record whose id: tag equals query.
func (s *Session) Complete(query string) (*todotxt.Record, error) {
	q := strings.TrimSpace(query)
	r := s.tbl.FindByTitle(q, Column)
	if r == nil {
		r = s.tbl.FindByMeta(Column, todotxt.KeyID, q)
	}
	if r == nil {
		return nil, &NotFoundError{Query: query}
	}
	s.CompleteRecord(r)
	return r, nil
}

// CompleteRecord marks r done. r must belong to this session.
func (s *Session) CompleteRecord(r *todotxt.Record) {
	r.Complete()
	s.changed = true
	s.opts.Logger.Debug("completed todo", "todo", r.String())
}

// Archive moves completed records to the archive and rewrites the source
// with the rest. It is the only write of the invocation.
func (s *Session) Archive() (kept, archived int, err error) {
	sink, err := storage.OpenSink(s.opts.ArchivePath)
	if err != nil {
		return 0, 0, err
	}
	defer sink.Close()

	keep, done, err := storage.Archive(s.opts.SourcePath, sink, s.Records())
	if err != nil {
		return 0, 0, err
	}
	s.reset(keep)
	s.changed = false
	s.opts.Logger.Debug("archived todos", "archive", s.opts.ArchivePath, "kept", len(keep), "archived", len(done))
	return len(keep), len(done), nil
}

// Changed reports whether an add or complete is waiting to be saved.
func (s *Session) Changed() bool { return s.changed }

// Save rewrites the source file when something changed.
func (s *Session) Save() error {
	if !s.changed {
		return nil
	}
	if err := storage.Rewrite(s.opts.SourcePath, s.Records()); err != nil {
		return err
	}
	s.changed = false
	return nil
}
