package todotxt

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var dateTokenRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseError reports a line that cannot be read as a record.
type ParseError struct {
	Line   string
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("invalid todo %q: %s (%q)", e.Line, e.Reason, e.Token)
	}
	return fmt.Sprintf("invalid todo %q: %s", e.Line, e.Reason)
}

// Parse reads one todo.txt line. Blank lines are the caller's business and
// are rejected here.
func Parse(line string) (*Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &ParseError{Line: line, Reason: "empty line"}
	}

	r := &Record{}
	i := 0
	if fields[i] == "x" {
		r.Completed = true
		i++
	}
	if i < len(fields) && isPriorityToken(fields[i]) {
		r.Priority = Priority(fields[i][1]-'A') + 1
		i++
	}
	if i < len(fields) && dateTokenRe.MatchString(fields[i]) {
		created, err := time.Parse(dateLayout, fields[i])
		if err != nil {
			return nil, &ParseError{Line: line, Token: fields[i], Reason: "invalid creation date"}
		}
		r.Created = created
		i++
	}
	if i == len(fields) {
		return nil, &ParseError{Line: line, Reason: "missing description"}
	}

	seenDue := false
	for _, w := range fields[i:] {
		t, ok := splitTag(w)
		if !ok || t.Key != KeyDue {
			continue
		}
		if seenDue {
			return nil, &ParseError{Line: line, Token: w, Reason: "more than one due tag"}
		}
		d, err := ParseDeadline(t.Value)
		if err != nil {
			return nil, &ParseError{Line: line, Token: w, Reason: err.Error()}
		}
		r.Deadline = d
		seenDue = true
	}
	r.words = fields[i:]
	return r, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(line string) *Record {
	r, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return r
}
