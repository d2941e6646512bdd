package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/config"
	"todo/internal/listing"
	"todo/internal/render"
	"todo/internal/session"
	"todo/internal/todotxt"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type Model struct {
	sess   *session.Session
	keys   config.Keymap
	filter listing.Filter
	style  render.Style
	todos  []*todotxt.Record
	cursor int
	mode   mode
	input  textinput.Model
	status string
}

// Run shows the filtered listing until the user quits. Changes stay in the
// session; saving is up to the caller.
func Run(sess *session.Session, keys config.Keymap, filter listing.Filter, style render.Style) error {
	program := tea.NewProgram(newModel(sess, keys, filter, style))
	_, err := program.Run()
	return err
}

func newModel(sess *session.Session, keys config.Keymap, filter listing.Filter, style render.Style) Model {
	ti := textinput.New()
	ti.Placeholder = "(A) Task +project @context due:2024-01-01"
	ti.CharLimit = 512
	ti.Width = 60

	m := Model{
		sess:   sess,
		keys:   keys,
		filter: filter,
		style:  style,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, %s to complete.", keys.Add, keyName(keys.Toggle)),
	}
	m.reload()
	return m
}

func (m *Model) reload() {
	m.todos = m.sess.List(m.filter)
	m.cursor = clampCursor(m.cursor, len(m.todos))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.keys.Confirm:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Todo cannot be empty"
			return m, nil
		}
		r, err := m.sess.Add(text)
		if err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		m.reload()
		m.cursor = clampCursor(indexOf(m.todos, r), len(m.todos))
		m.status = "Added todo"
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.keys.Quit:
		return m, tea.Quit
	case m.keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.todos))
	case m.keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.todos))
	case m.keys.Add:
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Add mode: type a todo.txt line and press Enter"
	case m.keys.Toggle:
		if len(m.todos) == 0 {
			return m, nil
		}
		r := m.todos[m.cursor]
		if r.Completed {
			m.status = "Already done; archive to remove it"
			return m, nil
		}
		m.sess.CompleteRecord(r)
		m.reload()
		m.status = "Completed " + r.Title()
	case m.keys.Detail:
		if len(m.todos) == 0 {
			m.status = "No todos"
			return m, nil
		}
		m.status = detail(m.todos[m.cursor], m.sess)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("todo")
	if m.sess.Changed() {
		b.WriteString(" (unsaved)")
	}
	b.WriteString("\n\n")

	if len(m.todos) == 0 {
		b.WriteString(fmt.Sprintf("No todos. Press '%s' to add one.", m.keys.Add))
	} else {
		b.WriteString(m.renderList())
	}

	b.WriteString("\n---\n")
	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.keys))

	return b.String()
}

func (m Model) renderList() string {
	now := m.sess.Now()
	var b strings.Builder
	for i, r := range m.todos {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = m.style.Cursor(">")
		}
		b.WriteString(cursor + " " + m.style.Record(r, now))
		b.WriteString("\n")
	}
	return b.String()
}

func detail(r *todotxt.Record, sess *session.Session) string {
	parts := []string{r.Title(), humanDone(r.Completed)}
	if r.Priority.IsSet() {
		parts = append(parts, "priority:"+r.Priority.Letter())
	}
	if r.HasCreated() {
		parts = append(parts, "created:"+r.Created.Format("2006-01-02"))
	}
	if !r.Deadline.IsZero() {
		due := "due:" + r.Deadline.String()
		if r.Due(sess.Now()) && !r.Completed {
			due += " (due now)"
		}
		parts = append(parts, due)
	}
	for _, t := range r.Tags() {
		if t.Key == todotxt.KeyDue {
			continue
		}
		parts = append(parts, t.Key+":"+t.Value)
	}
	return strings.Join(parts, " • ")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s detail • %s complete • %s quit",
		k.Up, k.Down, k.Add, k.Detail, keyName(k.Toggle), k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func indexOf(todos []*todotxt.Record, r *todotxt.Record) int {
	for i, t := range todos {
		if t == r {
			return i
		}
	}
	return len(todos) - 1
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
