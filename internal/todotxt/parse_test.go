package todotxt

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	r, err := Parse("x (B) 2024-02-03 Call mom +family @phone id:7 due:2024-03-01")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !r.Completed {
		t.Error("Completed: got false, want true")
	}
	if r.Priority.Letter() != "B" {
		t.Errorf("Priority: got %q, want B", r.Priority.Letter())
	}
	wantCreated := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	if !r.Created.Equal(wantCreated) {
		t.Errorf("Created: got %v, want %v", r.Created, wantCreated)
	}
	if r.Deadline.Kind != DeadlineDay || r.Deadline.String() != "2024-03-01" {
		t.Errorf("Deadline: got %v %q, want day 2024-03-01", r.Deadline.Kind, r.Deadline.String())
	}
	if got := r.Title(); got != "Call mom +family @phone" {
		t.Errorf("Title: got %q", got)
	}
	if got := r.Description(); got != "Call mom +family @phone id:7 due:2024-03-01" {
		t.Errorf("Description: got %q", got)
	}
	if id, ok := r.Meta("id"); !ok || id != "7" {
		t.Errorf("Meta(id): got %q, %v", id, ok)
	}
	if !r.HasProject("family") || !r.HasContext("phone") {
		t.Error("expected +family and @phone to match")
	}
	if r.HasProject("phone") {
		t.Error("@phone must not match as a project")
	}
}

func TestParseMarkersOnlyAtStart(t *testing.T) {
	r, err := Parse("Buy x (A) 2024-01-01")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Completed || r.Priority.IsSet() || r.HasCreated() {
		t.Errorf("markers after the first word must be text, got %+v", r)
	}
	if r.Description() != "Buy x (A) 2024-01-01" {
		t.Errorf("Description: got %q", r.Description())
	}

	r, err = Parse("xylophone lessons")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Completed {
		t.Error("xylophone must not be read as a completion marker")
	}
}

func TestParseProjectAndContextTags(t *testing.T) {
	r := MustParse("Write report project:work context:office")
	if !r.HasProject("work") {
		t.Error("project: tag should match HasProject")
	}
	if !r.HasContext("office") {
		t.Error("context: tag should match HasContext")
	}
	if r.Title() != "Write report" {
		t.Errorf("Title: got %q", r.Title())
	}
}

func TestParseDeadlines(t *testing.T) {
	tests := []struct {
		line string
		kind DeadlineKind
	}{
		{"a", DeadlineNone},
		{"a due:2024-01-01", DeadlineDay},
		{"a due:daily", DeadlineDaily},
		{"a due:always", DeadlineAlways},
		{"a due:2024-01-01T09:30", DeadlineInstant},
		{"a due:2024-01-01T09:30:15", DeadlineInstant},
		{"a due:2024-01-01T09:30:00Z", DeadlineInstant},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if r.Deadline.Kind != tt.kind {
				t.Errorf("Kind: got %d, want %d", r.Deadline.Kind, tt.kind)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		token string
	}{
		{name: "blank", line: "   "},
		{name: "markers only", line: "x (A) 2024-01-01"},
		{name: "bad creation date", line: "2024-13-40 task", token: "2024-13-40"},
		{name: "bad due", line: "task due:someday", token: "due:someday"},
		{name: "two dues", line: "task due:daily due:always", token: "due:always"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Token != tt.token {
				t.Errorf("Token: got %q, want %q", pe.Token, tt.token)
			}
			if pe.Line != tt.line {
				t.Errorf("Line: got %q, want %q", pe.Line, tt.line)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{
		"x Buy milk",
		"(A) Call mom due:2024-01-01",
		"x (C) 2023-12-31 File taxes +home @desk id:tax",
		"2024-05-05 Water plants due:daily",
		"Standup due:2024-01-01T09:30",
		"Stretch due:always",
		"x x marks the spot",
		"(B) 2024-01-01 (C) looks like a priority",
		"   spaced    out   words  ",
		"visit http://example.com path:~/notes.txt",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			first, err := Parse(line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", line, err)
			}
			second, err := Parse(first.String())
			if err != nil {
				t.Fatalf("re-Parse(%q) failed: %v", first.String(), err)
			}
			if !first.Equal(second) {
				t.Errorf("round trip changed record:\n first  %q\n second %q", first.String(), second.String())
			}
			if first.String() != second.String() {
				t.Errorf("rendering not stable: %q vs %q", first.String(), second.String())
			}
		})
	}
}

func TestCompleteKeepsPriority(t *testing.T) {
	r := MustParse("(A) Call mom")
	r.Complete()
	if !r.Completed {
		t.Fatal("Complete did not mark the record")
	}
	if r.Priority.Letter() != "A" {
		t.Errorf("Priority: got %q, want A", r.Priority.Letter())
	}
	if r.String() != "x (A) Call mom" {
		t.Errorf("String: got %q", r.String())
	}
}

func TestAddTag(t *testing.T) {
	r := MustParse("Buy milk")
	r.AddTag(KeyID, "42")
	if id, _ := r.Meta(KeyID); id != "42" {
		t.Errorf("Meta(id): got %q", id)
	}
	if r.String() != "Buy milk id:42" {
		t.Errorf("String: got %q", r.String())
	}
	if r.Title() != "Buy milk" {
		t.Errorf("Title: got %q", r.Title())
	}
}

func TestTagKeyStartsWithLetter(t *testing.T) {
	r := MustParse("Meet Bob at 10:30 room:4B")
	if got := r.Title(); got != "Meet Bob at 10:30" {
		t.Errorf("Title: got %q", got)
	}
	tags := r.Tags()
	if len(tags) != 1 || tags[0] != (Tag{Key: "room", Value: "4B"}) {
		t.Errorf("Tags: got %v", tags)
	}
	if IsTag("10:30") || IsTag("_x:1") || !IsTag("a1:2") {
		t.Error("IsTag: keys must start with a letter")
	}
}
