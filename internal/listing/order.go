// Package listing orders and filters records for display.
package listing

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"todo/internal/todotxt"
)

// state buckets a record for the first sort key.
func state(r *todotxt.Record, now time.Time) int {
	switch {
	case r.Completed:
		return 2
	case r.Due(now):
		return 0
	}
	return 1
}

// Compare orders two records for listing. Each step is a total preorder, so
// a step either decides or hands off to the next one:
//  1. incomplete before completed; among incomplete, due before not due
//  2. priority, most urgent first, unset last
//  3. deadline (todotxt.Deadline.Compare)
//  4. creation date, oldest first, undated last
//  5. description text
func Compare(a, b *todotxt.Record, now time.Time) int {
	if c := cmp.Compare(state(a, now), state(b, now)); c != 0 {
		return c
	}
	if c := a.Priority.Compare(b.Priority); c != 0 {
		return c
	}
	if c := a.Deadline.Compare(b.Deadline); c != 0 {
		return c
	}
	if c := compareCreated(a, b); c != 0 {
		return c
	}
	return strings.Compare(a.Description(), b.Description())
}

func compareCreated(a, b *todotxt.Record) int {
	switch {
	case a.HasCreated() && b.HasCreated():
		return a.Created.Compare(b.Created)
	case a.HasCreated():
		return -1
	case b.HasCreated():
		return 1
	}
	return 0
}

// Sort returns a sorted copy of records. Equal records keep their input order.
func Sort(records []*todotxt.Record, now time.Time) []*todotxt.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b *todotxt.Record) int {
		return Compare(a, b, now)
	})
	return out
}
