// Package ui provides the terminal interface for the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/tasks"
)

// ErrNotTTY is returned by RunTUI when stdout is not a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	logger    *log.Logger
	storeName string
}

// WithLogger sets the logger passed to the controller.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithStoreName sets the storage label shown in the footer.
func WithStoreName(name string) TUIOption {
	return func(c *tuiConfig) {
		c.storeName = name
	}
}

// RunTUI starts the TUI over s and blocks until the user quits or ctx is
// cancelled.
func RunTUI(ctx context.Context, s store.TaskStore, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}

	model := NewModel(s, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

type focusArea int

const (
	focusInput focusArea = iota
	focusAdd
	focusList
	focusCount
)

// alertBox receives controller alerts and holds them until dismissed.
type alertBox struct {
	message string
}

func (a *alertBox) Alert(message string) {
	a.message = message
}

// Model is the bubbletea model for the task list screen.
type Model struct {
	ctl       *tasks.Controller
	alerts    *alertBox
	input     textinput.Model
	keys      keyMap
	help      help.Model
	focus     focusArea
	cursor    int
	status    string
	storeName string
	quitting  bool
}

// NewModel builds the model and its controller over s.
func NewModel(s store.TaskStore, opts ...TUIOption) *Model {
	c := &tuiConfig{}
	for _, opt := range opts {
		opt(c)
	}

	alerts := &alertBox{}
	ctlOpts := []tasks.Option{}
	if c.logger != nil {
		ctlOpts = append(ctlOpts, tasks.WithLogger(c.logger))
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Width = 48
	input.Focus()

	return &Model{
		ctl:       tasks.New(s, alerts, ctlOpts...),
		alerts:    alerts,
		input:     input,
		keys:      defaultKeyMap(),
		help:      help.New(),
		focus:     focusInput,
		storeName: c.storeName,
	}
}

// Init hydrates the list from the store.
func (m *Model) Init() tea.Cmd {
	if err := m.ctl.Initialize(); err != nil {
		m.status = err.Error()
	}
	return textinput.Blink
}

// Update handles key and window events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if msg.Width > 20 {
			m.input.Width = min(msg.Width-20, 72)
		}
		return m, nil

	case tea.KeyMsg:
		// An open alert swallows the key that dismisses it.
		if m.alerts.message != "" {
			m.alerts.message = ""
			return m, m.setFocus(focusInput)
		}

		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextFocus):
			return m, m.setFocus((m.focus + 1) % focusCount)
		case key.Matches(msg, m.keys.PrevFocus):
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		}

		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusAdd:
			return m.updateAdd(msg)
		case focusList:
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit), msg.String() == " ":
		return m, m.submit()
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.ctl.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Remove), key.Matches(msg, m.keys.Submit):
		m.removeSelected()
	case key.Matches(msg, m.keys.Edit):
		return m, m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// submit hands the field's text to the controller. The field is cleared and
// refocused only when the task was accepted.
func (m *Model) submit() tea.Cmd {
	_, err := m.ctl.SubmitFromUser(m.input.Value())
	if err != nil {
		if !errors.Is(err, tasks.ErrEmptyTask) {
			m.status = err.Error()
		}
		return nil
	}

	m.status = ""
	m.input.Reset()
	m.cursor = m.ctl.Len() - 1
	return m.setFocus(focusInput)
}

func (m *Model) removeSelected() {
	rows := m.ctl.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return
	}
	if err := m.ctl.Remove(rows[m.cursor].ID); err != nil {
		m.status = err.Error()
	} else {
		m.status = ""
	}
	if m.cursor >= m.ctl.Len() {
		m.cursor = m.ctl.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// View renders the screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	writeTitle(&b)

	if m.alerts.message != "" {
		b.WriteString(alertStyle.Render(m.alerts.message))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Press any key to continue"))
		b.WriteString("\n")
		return b.String()
	}

	m.writeInput(&b)
	m.writeRows(&b)

	if m.status != "" {
		b.WriteString(statusStyle.Render("Error: "+m.status) + "\n\n")
	}
	if m.storeName != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Storage: %s", m.storeName)) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("To-Do List") + "\n\n")
}

func (m *Model) writeInput(b *strings.Builder) {
	button := buttonStyle
	if m.focus == focusAdd {
		button = activeButtonStyle
	}
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(button.Render("[ Add ]"))
	b.WriteString("\n\n")
}

func (m *Model) writeRows(b *strings.Builder) {
	rows := m.ctl.Rows()
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks yet.") + "\n\n")
		return
	}

	for i, row := range rows {
		selected := m.focus == focusList && i == m.cursor
		marker := "  "
		style, remove := rowStyle, removeStyle
		if selected {
			marker = "> "
			style, remove = selectedRowStyle, activeRemove
		}
		b.WriteString(style.Render(marker + row.Text()))
		b.WriteString("  ")
		b.WriteString(remove.Render("[ Remove ]"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
