// Package table holds parsed records grouped into named, ordered columns.
package table

import (
	"errors"
	"fmt"
	"slices"

	"todo/internal/todotxt"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Table maps column names to records in insertion order.
type Table struct {
	name  string
	order []string
	cols  map[string][]*todotxt.Record
}

// New returns an empty table. The name is informational.
func New(name string) *Table {
	return &Table{name: name, cols: map[string][]*todotxt.Record{}}
}

func (t *Table) Name() string { return t.name }

// AddColumn creates an empty column. Adding a name twice is an error.
func (t *Table) AddColumn(name string) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	t.cols[name] = nil
	t.order = append(t.order, name)
	return nil
}

// AddRecord appends r to column.
func (t *Table) AddRecord(r *todotxt.Record, column string) error {
	recs, ok := t.cols[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	t.cols[column] = append(recs, r)
	return nil
}

// FindByTitle returns the first record in column whose description equals
// text, or failing that the first whose title (description without
// key:value tags) equals text.
func (t *Table) FindByTitle(text, column string) *todotxt.Record {
	recs := t.cols[column]
	for _, r := range recs {
		if r.Description() == text {
			return r
		}
	}
	for _, r := range recs {
		if r.Title() == text {
			return r
		}
	}
	return nil
}

// FindByMeta returns the first record in column whose key tag equals value.
func (t *Table) FindByMeta(column, key, value string) *todotxt.Record {
	for _, r := range t.cols[column] {
		if v, ok := r.Meta(key); ok && v == value {
			return r
		}
	}
	return nil
}

// Column returns a copy of the column's current sequence. Sorting or
// filtering the copy leaves the table order alone.
func (t *Table) Column(name string) ([]*todotxt.Record, bool) {
	recs, ok := t.cols[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(recs), true
}

// Columns lists column names in creation order.
func (t *Table) Columns() []string {
	return slices.Clone(t.order)
}
