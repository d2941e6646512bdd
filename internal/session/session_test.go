package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todo/internal/listing"
	"todo/internal/todotxt"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newSession(t *testing.T, content string, autoID bool) (*Session, string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "todo.txt")
	arc := filepath.Join(dir, "todo.txt.archive")
	if content != "" {
		if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
			t.Fatalf("write source: %v", err)
		}
	}
	s, err := Open(Options{
		SourcePath:  src,
		ArchivePath: arc,
		AutoID:      autoID,
		Now:         func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, src, arc
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestListScenario(t *testing.T) {
	s, _, _ := newSession(t, "x Buy milk\n(A) Call mom due:2024-01-01\n", false)
	got := s.List(listing.Filter{})
	if len(got) != 2 || got[0].String() != "(A) Call mom due:2024-01-01" || got[1].String() != "x Buy milk" {
		t.Errorf("unexpected listing: %v", got)
	}
}

func TestAddThenList(t *testing.T) {
	s, src, _ := newSession(t, "existing\n", false)
	if _, err := s.Add("(C) Water plants +home"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !s.Changed() {
		t.Fatal("Add should mark the session changed")
	}
	count := 0
	for _, r := range s.List(listing.Filter{}) {
		if r.String() == "(C) Water plants +home" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("new record listed %d times, want 1", count)
	}

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := readFile(t, src); got != "existing\n(C) Water plants +home\n" {
		t.Errorf("saved file: got %q", got)
	}
	if s.Changed() {
		t.Error("Save should clear the changed flag")
	}
}

func TestAddInvalid(t *testing.T) {
	s, _, _ := newSession(t, "", false)
	_, err := s.Add("x")
	var pe *todotxt.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if s.Changed() || len(s.Records()) != 0 {
		t.Error("a rejected add must leave the session untouched")
	}
}

func TestAddAutoID(t *testing.T) {
	s, _, _ := newSession(t, "", true)
	r, err := s.Add("Write report")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id, ok := r.Meta(todotxt.KeyID)
	if !ok || len(id) != 26 {
		t.Fatalf("expected a ULID id tag, got %q (%v)", id, ok)
	}
	if !strings.HasPrefix(r.Description(), "Write report id:") {
		t.Errorf("description: got %q", r.Description())
	}

	r, err = s.Add("Keep mine id:42")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Description() != "Keep mine id:42" {
		t.Errorf("existing id should be kept, got %q", r.Description())
	}
}

func TestCompleteByTitle(t *testing.T) {
	s, src, _ := newSession(t, "(A) Call mom due:2024-01-01\nCall mom\n", false)
	r, err := s.Complete("Call mom")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if r.String() != "x (A) Call mom due:2024-01-01" {
		t.Errorf("first match should complete and keep priority, got %q", r)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := readFile(t, src); got != "x (A) Call mom due:2024-01-01\nCall mom\n" {
		t.Errorf("saved file: got %q", got)
	}
}

func TestCompleteFallsBackToID(t *testing.T) {
	s, _, _ := newSession(t, "Pay rent id:7\nSomething else\n", false)
	r, err := s.Complete("7")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !r.Completed || r.Title() != "Pay rent" {
		t.Errorf("wrong record completed: %q", r)
	}
}

func TestCompleteNotFound(t *testing.T) {
	s, _, _ := newSession(t, "Pay rent id:7\n", false)
	_, err := s.Complete("8")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Query != "8" {
		t.Errorf("expected NotFoundError for %q, got %v", "8", err)
	}
	if s.Changed() {
		t.Error("a failed completion must not mark the session changed")
	}
}

func TestArchiveScenario(t *testing.T) {
	s, src, arc := newSession(t, "x Buy milk\n(A) Call mom due:2024-01-01\n", false)
	if err := os.WriteFile(arc, []byte("x earlier\n"), 0o644); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	kept, archived, err := s.Archive()
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if kept != 1 || archived != 1 {
		t.Errorf("got kept=%d archived=%d, want 1/1", kept, archived)
	}
	if got := readFile(t, src); got != "(A) Call mom due:2024-01-01\n" {
		t.Errorf("source: got %q", got)
	}
	if got := readFile(t, arc); got != "x earlier\nx Buy milk\n" {
		t.Errorf("archive: got %q", got)
	}
	if len(s.Records()) != 1 || s.Changed() {
		t.Errorf("session should hold only the kept record and be clean")
	}
}

func TestArchiveAfterComplete(t *testing.T) {
	s, src, arc := newSession(t, "Pay rent\nRead book\n", false)
	if _, err := s.Complete("Pay rent"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, _, err := s.Archive(); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if got := readFile(t, src); got != "Read book\n" {
		t.Errorf("source: got %q", got)
	}
	if got := readFile(t, arc); got != "x Pay rent\n" {
		t.Errorf("archive: got %q", got)
	}
}

func TestSaveWithoutChangesDoesNotWrite(t *testing.T) {
	s, src, _ := newSession(t, "", false)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("Save without changes created %s", src)
	}
}

func TestOpenParseError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "todo.txt")
	if err := os.WriteFile(src, []byte("ok\n(A)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(Options{SourcePath: src})
	var pe *todotxt.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestCompleteByDisplayedText(t *testing.T) {
	s, _, _ := newSession(t, "Meet Bob at 10:30\n(A) Call mom due:2024-01-01\n", false)

	r, err := s.Complete("Meet Bob at 10:30")
	if err != nil {
		t.Fatalf("Complete by text with a clock time: %v", err)
	}
	if r.String() != "x Meet Bob at 10:30" {
		t.Errorf("got %q", r)
	}

	r, err = s.Complete("Call mom due:2024-01-01")
	if err != nil {
		t.Fatalf("Complete by full description: %v", err)
	}
	if r.String() != "x (A) Call mom due:2024-01-01" {
		t.Errorf("got %q", r)
	}
}
