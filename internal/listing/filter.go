package listing

import (
	"time"

	"todo/internal/todotxt"
)

// Filter narrows a listing. Zero-valued fields let everything through.
type Filter struct {
	Project     string
	Context     string
	MinPriority *todotxt.Priority
	MaxPriority *todotxt.Priority
}

// Match applies the predicates in order: project, context, minimum
// priority, maximum priority.
func (f Filter) Match(r *todotxt.Record) bool {
	if f.Project != "" && !r.HasProject(f.Project) {
		return false
	}
	if f.Context != "" && !r.HasContext(f.Context) {
		return false
	}
	if f.MinPriority != nil && !r.Priority.AtLeast(*f.MinPriority) {
		return false
	}
	if f.MaxPriority != nil && !r.Priority.AtMost(*f.MaxPriority) {
		return false
	}
	return true
}

// Apply returns the records that match, in input order.
func (f Filter) Apply(records []*todotxt.Record) []*todotxt.Record {
	out := make([]*todotxt.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// List sorts a snapshot and then filters it.
func List(records []*todotxt.Record, f Filter, now time.Time) []*todotxt.Record {
	return f.Apply(Sort(records, now))
}
