package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"todo/internal/todotxt"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Entry is the structured view of a record used by the JSON and YAML outputs.
type Entry struct {
	Line      string        `json:"line" yaml:"line"`
	Title     string        `json:"title" yaml:"title"`
	Completed bool          `json:"completed" yaml:"completed"`
	Priority  string        `json:"priority,omitempty" yaml:"priority,omitempty"`
	Created   string        `json:"created,omitempty" yaml:"created,omitempty"`
	Deadline  string        `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Due       bool          `json:"due" yaml:"due"`
	Tags      []todotxt.Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func NewEntry(r *todotxt.Record, now time.Time) Entry {
	e := Entry{
		Line:      r.String(),
		Title:     r.Title(),
		Completed: r.Completed,
		Priority:  r.Priority.Letter(),
		Deadline:  r.Deadline.String(),
		Due:       r.Due(now),
		Tags:      r.Tags(),
	}
	if r.HasCreated() {
		e.Created = r.Created.Format("2006-01-02")
	}
	return e
}

// Write prints records in the given format. Text output is one styled line
// per record; JSON and YAML ignore the style.
func Write(w io.Writer, records []*todotxt.Record, format Format, style Style, now time.Time) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries(records, now))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries(records, now)); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		for _, r := range records {
			if _, err := fmt.Fprintln(w, style.Record(r, now)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func entries(records []*todotxt.Record, now time.Time) []Entry {
	out := make([]Entry, 0, len(records))
	for _, r := range records {
		out = append(out, NewEntry(r, now))
	}
	return out
}
