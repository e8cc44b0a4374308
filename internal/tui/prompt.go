// Package tui provides terminal user interface components for tmplcheck
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/tmplcheck/internal/template"
)

// ErrCancelled is returned when the user aborts the questionnaire.
var ErrCancelled = errors.New("questionnaire cancelled")

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// choiceItem implements list.Item for a question choice.
type choiceItem struct {
	value string
}

func (c choiceItem) Title() string       { return c.value }
func (c choiceItem) Description() string { return "" }
func (c choiceItem) FilterValue() string { return c.value }

// questionModel asks a single question, either as free text or as a
// choice list.
type questionModel struct {
	question template.Question
	def      string

	input   textinput.Model
	choices *list.Model

	value     string
	err       string
	done      bool
	cancelled bool
}

func newQuestionModel(q template.Question, def string) *questionModel {
	m := &questionModel{question: q, def: def}

	options := q.Choices
	if len(options) == 0 && q.Type == "bool" {
		options = []string{"true", "false"}
	}

	if len(options) > 0 {
		items := make([]list.Item, len(options))
		selected := 0
		for i, o := range options {
			items[i] = choiceItem{value: o}
			if o == def {
				selected = i
			}
		}
		delegate := list.NewDefaultDelegate()
		delegate.ShowDescription = false
		delegate.SetSpacing(0)

		l := list.New(items, delegate, 40, len(items)+2)
		l.SetShowTitle(false)
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		l.SetShowPagination(false)
		l.SetFilteringEnabled(false)
		l.DisableQuitKeybindings()
		l.Select(selected)
		m.choices = &l
		return m
	}

	ti := textinput.New()
	ti.Placeholder = def
	ti.CharLimit = 1024
	ti.Width = 60
	if q.Secret {
		ti.EchoMode = textinput.EchoPassword
	}
	ti.Focus()
	m.input = ti
	return m
}

func (m *questionModel) Init() tea.Cmd {
	if m.choices != nil {
		return nil
	}
	return textinput.Blink
}

func (m *questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.choices != nil {
		*m.choices, cmd = m.choices.Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *questionModel) submit() (tea.Model, tea.Cmd) {
	var value string
	if m.choices != nil {
		item, ok := m.choices.SelectedItem().(choiceItem)
		if !ok {
			return m, nil
		}
		value = item.value
	} else {
		value = strings.TrimSpace(m.input.Value())
		if value == "" {
			value = m.def
		}
	}

	if err := validate(m.question, value); err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.value = value
	m.done = true
	return m, tea.Quit
}

// validate checks a free-text answer against the question type.
func validate(q template.Question, value string) error {
	if value == "" && !q.HasDefault {
		return errors.New("a value is required")
	}
	switch q.Type {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
	case "yaml", "json":
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			return fmt.Errorf("invalid %s: %v", q.Type, err)
		}
	}
	return nil
}

func (m *questionModel) View() string {
	var b strings.Builder

	label := m.question.Name
	if m.question.Type != "str" {
		label += " (" + m.question.Type + ")"
	}
	b.WriteString(questionStyle.Render(label))
	b.WriteString("\n")
	if m.question.Help != "" {
		b.WriteString(helpStyle.Render(m.question.Help))
		b.WriteString("\n")
	}

	if m.done {
		shown := m.value
		if m.question.Secret {
			shown = strings.Repeat("*", len(shown))
		}
		b.WriteString(answerStyle.Render(shown))
		b.WriteString("\n")
		return b.String()
	}

	if m.choices != nil {
		b.WriteString(m.choices.View())
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("Enter to confirm, Esc to cancel."))
	b.WriteString("\n")
	return b.String()
}

// Prompter asks questionnaire questions interactively. It implements
// template.Prompter.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// NewPrompter returns a Prompter on the process terminal.
func NewPrompter() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr}
}

func (p *Prompter) Ask(ctx context.Context, q template.Question, def string) (string, error) {
	m := newQuestionModel(q, def)

	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("failed to ask %s: %w", q.Name, err)
	}

	fm, ok := final.(*questionModel)
	if !ok || fm.cancelled || !fm.done {
		return "", ErrCancelled
	}
	return fm.value, nil
}

// Ensure Prompter implements template.Prompter.
var _ template.Prompter = (*Prompter)(nil)
