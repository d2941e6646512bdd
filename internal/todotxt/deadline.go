package todotxt

import (
	"fmt"
	"strings"
	"time"
)

// DeadlineKind selects the active variant of a Deadline.
type DeadlineKind uint8

const (
	DeadlineNone DeadlineKind = iota
	DeadlineDay
	DeadlineDaily
	DeadlineInstant
	DeadlineAlways
)

const (
	dateLayout = "2006-01-02"

	dueDaily  = "daily"
	dueAlways = "always"
)

var instantLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// Deadline is the value of a record's due: tag. At is meaningful only for
// DeadlineDay (midnight UTC of the calendar day) and DeadlineInstant.
type Deadline struct {
	Kind DeadlineKind
	At   time.Time
}

// OnDay returns a fixed-day deadline for the calendar day of t.
func OnDay(t time.Time) Deadline {
	return Deadline{Kind: DeadlineDay, At: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// AtInstant returns a deadline at an exact point in time.
func AtInstant(t time.Time) Deadline {
	return Deadline{Kind: DeadlineInstant, At: t}
}

// Daily returns the recurring daily deadline.
func Daily() Deadline { return Deadline{Kind: DeadlineDaily} }

// Always returns the always-due deadline.
func Always() Deadline { return Deadline{Kind: DeadlineAlways} }

// ParseDeadline parses the value of a due: tag.
func ParseDeadline(v string) (Deadline, error) {
	switch strings.ToLower(v) {
	case dueDaily:
		return Daily(), nil
	case dueAlways:
		return Always(), nil
	}
	if day, err := time.Parse(dateLayout, v); err == nil {
		return OnDay(day), nil
	}
	for _, layout := range instantLayouts {
		if at, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return AtInstant(at), nil
		}
	}
	if at, err := time.Parse(time.RFC3339, v); err == nil {
		return AtInstant(at), nil
	}
	return Deadline{}, fmt.Errorf("invalid due date %q", v)
}

// IsZero reports whether no deadline is set.
func (d Deadline) IsZero() bool { return d.Kind == DeadlineNone }

// String renders the due: tag value, or "" for no deadline.
func (d Deadline) String() string {
	switch d.Kind {
	case DeadlineDay:
		return d.At.Format(dateLayout)
	case DeadlineInstant:
		if d.At.Second() != 0 {
			return d.At.Format(instantLayouts[1])
		}
		return d.At.Format(instantLayouts[0])
	case DeadlineDaily:
		return dueDaily
	case DeadlineAlways:
		return dueAlways
	}
	return ""
}

// Due reports whether the deadline counts as due at now.
func (d Deadline) Due(now time.Time) bool {
	switch d.Kind {
	case DeadlineDay:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return !d.At.After(today)
	case DeadlineInstant:
		return !d.At.After(now)
	case DeadlineDaily, DeadlineAlways:
		return true
	}
	return false
}

// Equal reports whether both deadlines are the same variant and value.
func (d Deadline) Equal(o Deadline) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case DeadlineDay, DeadlineInstant:
		return d.At.Equal(o.At)
	}
	return true
}

// rank fixes the listing order between variants:
// always, day, instant, daily, none.
func (k DeadlineKind) rank() int {
	switch k {
	case DeadlineAlways:
		return 0
	case DeadlineDay:
		return 1
	case DeadlineInstant:
		return 2
	case DeadlineDaily:
		return 3
	}
	return 4
}

// Compare orders deadlines for listing. Variants compare by rank; two fixed
// days compare by calendar day and two instants by time. Everything else
// within a variant is a tie.
func (d Deadline) Compare(o Deadline) int {
	if r, s := d.Kind.rank(), o.Kind.rank(); r != s {
		if r < s {
			return -1
		}
		return 1
	}
	switch d.Kind {
	case DeadlineDay, DeadlineInstant:
		return d.At.Compare(o.At)
	}
	return 0
}
