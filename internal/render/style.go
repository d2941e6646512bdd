// Package render turns records into terminal text, JSON or YAML.
package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/todotxt"
)

// Palette holds ANSI color codes for each part of a line.
type Palette struct {
	Priority string `toml:"priority"`
	Date     string `toml:"date"`
	Project  string `toml:"project"`
	Context  string `toml:"context"`
	Tag      string `toml:"tag"`
	Due      string `toml:"due"`
	Done     string `toml:"done"`
}

func DefaultPalette() Palette {
	return Palette{
		Priority: "3",
		Date:     "8",
		Project:  "6",
		Context:  "6",
		Tag:      "4",
		Due:      "1",
		Done:     "8",
	}
}

// Style colors records. The zero value, like Plain(), prints canonical lines.
type Style struct {
	colored  bool
	priority lipgloss.Style
	date     lipgloss.Style
	project  lipgloss.Style
	context  lipgloss.Style
	tag      lipgloss.Style
	due      lipgloss.Style
	done     lipgloss.Style
	cursor   lipgloss.Style
}

// NewStyle builds a Style for the terminal behind r.
func NewStyle(p Palette, r *lipgloss.Renderer) Style {
	fg := func(c string) lipgloss.Style {
		s := r.NewStyle()
		if c != "" {
			s = s.Foreground(lipgloss.Color(c))
		}
		return s
	}
	return Style{
		colored:  true,
		priority: fg(p.Priority).Bold(true),
		date:     fg(p.Date),
		project:  fg(p.Project),
		context:  fg(p.Context).Italic(true),
		tag:      fg(p.Tag),
		due:      fg(p.Due).Bold(true),
		done:     fg(p.Done).Strikethrough(true),
		cursor:   fg(p.Priority).Bold(true),
	}
}

func Plain() Style { return Style{} }

// Record renders r. Uncolored output equals r.String().
func (s Style) Record(r *todotxt.Record, now time.Time) string {
	if !s.colored {
		return r.String()
	}
	if r.Completed {
		return s.done.Render(r.String())
	}

	parts := make([]string, 0, len(r.Words())+2)
	if r.Priority.IsSet() {
		parts = append(parts, s.priority.Render(r.Priority.String()))
	}
	if r.HasCreated() {
		parts = append(parts, s.date.Render(r.Created.Format("2006-01-02")))
	}
	due := r.Due(now)
	for _, w := range r.Words() {
		parts = append(parts, s.word(w, due))
	}
	return strings.Join(parts, " ")
}

func (s Style) word(w string, due bool) string {
	switch {
	case len(w) > 1 && w[0] == '+':
		return s.project.Render(w)
	case len(w) > 1 && w[0] == '@':
		return s.context.Render(w)
	case strings.HasPrefix(w, todotxt.KeyDue+":"):
		if due {
			return s.due.Render(w)
		}
		return s.tag.Render(w)
	case todotxt.IsTag(w):
		return s.tag.Render(w)
	}
	return w
}

// Cursor highlights the selection marker in the interactive list.
func (s Style) Cursor(text string) string {
	if !s.colored {
		return text
	}
	return s.cursor.Render(text)
}
