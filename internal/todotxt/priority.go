package todotxt

import (
	"fmt"
	"strings"
)

// Priority is a todo.txt priority letter. The zero value means the record
// has no priority; A is the most urgent and Z the least urgent assigned one.
type Priority uint8

// NoPriority marks a record without a priority.
const NoPriority Priority = 0

const maxPriority = 'Z' - 'A' + 1

// ParsePriority accepts "A", "a" or "(A)".
func ParsePriority(s string) (Priority, error) {
	v := strings.TrimSpace(s)
	if len(v) == 3 && v[0] == '(' && v[2] == ')' {
		v = v[1:2]
	}
	v = strings.ToUpper(v)
	if len(v) != 1 || v[0] < 'A' || v[0] > 'Z' {
		return NoPriority, fmt.Errorf("invalid priority %q: want a letter A-Z", s)
	}
	return Priority(v[0]-'A') + 1, nil
}

// IsSet reports whether p is an assigned priority.
func (p Priority) IsSet() bool {
	return p >= 1 && p <= maxPriority
}

// Letter returns "A".."Z", or "" when unset.
func (p Priority) Letter() string {
	if !p.IsSet() {
		return ""
	}
	return string(rune('A' + p - 1))
}

// String renders the line marker, e.g. "(A)".
func (p Priority) String() string {
	if !p.IsSet() {
		return ""
	}
	return "(" + p.Letter() + ")"
}

// Compare orders by urgency: negative when p is more urgent than q.
// An unset priority is weaker than every assigned one.
func (p Priority) Compare(q Priority) int {
	switch {
	case !p.IsSet() && !q.IsSet():
		return 0
	case !p.IsSet():
		return 1
	case !q.IsSet():
		return -1
	case p < q:
		return -1
	case p > q:
		return 1
	}
	return 0
}

// AtLeast reports whether p is at least as urgent as bound.
// A record without a priority never meets a minimum.
func (p Priority) AtLeast(bound Priority) bool {
	if !p.IsSet() {
		return false
	}
	return p.Compare(bound) <= 0
}

// AtMost reports whether p is no more urgent than bound.
// A record without a priority always stays under a maximum.
func (p Priority) AtMost(bound Priority) bool {
	if !p.IsSet() {
		return true
	}
	return p.Compare(bound) >= 0
}

func isPriorityToken(tok string) bool {
	return len(tok) == 3 && tok[0] == '(' && tok[2] == ')' && tok[1] >= 'A' && tok[1] <= 'Z'
}
