// Package todotxt models todo.txt task lines: parsing, canonical rendering
// and the metadata tags embedded in a description.
package todotxt

import (
	"slices"
	"strings"
	"time"
)

// Well-known tag keys.
const (
	KeyDue     = "due"
	KeyID      = "id"
	KeyPath    = "path"
	KeyProject = "project"
	KeyContext = "context"
)

// Tag is one key:value token of a description.
type Tag struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Record is a single task line.
type Record struct {
	Completed bool
	Priority  Priority
	Created   time.Time
	Deadline  Deadline

	words []string
}

// Words returns the description tokens, tags included.
func (r *Record) Words() []string {
	return slices.Clone(r.words)
}

// Description is the description text exactly as it is written back.
func (r *Record) Description() string {
	return strings.Join(r.words, " ")
}

// Title is the description without key:value tags. It is what completion
// matches against.
func (r *Record) Title() string {
	var parts []string
	for _, w := range r.words {
		if _, ok := splitTag(w); ok {
			continue
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

// HasCreated reports whether the line carries a creation date.
func (r *Record) HasCreated() bool { return !r.Created.IsZero() }

// Tags returns the key:value tags in line order.
func (r *Record) Tags() []Tag {
	var tags []Tag
	for _, w := range r.words {
		if t, ok := splitTag(w); ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// Meta returns the value of the first tag with the given key.
func (r *Record) Meta(key string) (string, bool) {
	for _, w := range r.words {
		if t, ok := splitTag(w); ok && t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// AddTag appends key:value to the description.
func (r *Record) AddTag(key, value string) {
	r.words = append(r.words, key+":"+value)
}

// HasProject matches a +project word or a project: tag.
func (r *Record) HasProject(name string) bool {
	return r.hasMarked('+', KeyProject, name)
}

// HasContext matches an @context word or a context: tag.
func (r *Record) HasContext(name string) bool {
	return r.hasMarked('@', KeyContext, name)
}

func (r *Record) hasMarked(mark byte, key, name string) bool {
	if name == "" {
		return false
	}
	for _, w := range r.words {
		if len(w) > 1 && w[0] == mark && w[1:] == name {
			return true
		}
		if t, ok := splitTag(w); ok && t.Key == key && t.Value == name {
			return true
		}
	}
	return false
}

// Complete marks the record done. Priority is kept.
func (r *Record) Complete() { r.Completed = true }

// Due reports whether the record currently counts as due.
func (r *Record) Due(now time.Time) bool {
	return r.Deadline.Due(now)
}

// String renders the canonical line.
func (r *Record) String() string {
	var b strings.Builder
	if r.Completed {
		b.WriteString("x ")
	}
	if r.Priority.IsSet() {
		b.WriteString(r.Priority.String())
		b.WriteByte(' ')
	}
	if r.HasCreated() {
		b.WriteString(r.Created.Format(dateLayout))
		b.WriteByte(' ')
	}
	b.WriteString(r.Description())
	return b.String()
}

// Equal compares every stored field.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Completed == o.Completed &&
		r.Priority == o.Priority &&
		r.Created.Equal(o.Created) &&
		r.Deadline.Equal(o.Deadline) &&
		slices.Equal(r.words, o.words)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.words = slices.Clone(r.words)
	return &c
}

func splitTag(w string) (Tag, bool) {
	i := strings.IndexByte(w, ':')
	if i <= 0 || i == len(w)-1 {
		return Tag{}, false
	}
	key := w[:i]
	if c := key[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return Tag{}, false
	}
	for _, c := range key {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
			return Tag{}, false
		}
	}
	return Tag{Key: key, Value: w[i+1:]}, true
}

// IsTag reports whether w is a key:value token.
func IsTag(w string) bool {
	_, ok := splitTag(w)
	return ok
}
