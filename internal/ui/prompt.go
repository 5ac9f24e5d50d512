// Package ui is the interactive terminal front end: prompts, the loader line,
// annotation rendering and the menu loop.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user questions.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(ctx context.Context, title string, options []string) (int, error)
	Confirm(ctx context.Context, question string) (bool, error)
	// Secret reads a line without echoing it.
	Secret(ctx context.Context, prompt string) (string, error)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// TeaPrompter runs each prompt as a short-lived bubbletea program.
type TeaPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTeaPrompter reads keys from in and renders to out.
func NewTeaPrompter(in io.Reader, out io.Writer) *TeaPrompter {
	return &TeaPrompter{in: in, out: out}
}

func (p *TeaPrompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(m,
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// Select shows options as a scrollable list.
func (p *TeaPrompter) Select(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("select: no options")
	}
	final, err := p.run(ctx, newSelectModel(title, options))
	if err != nil {
		return 0, err
	}
	m := final.(selectModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return m.cursor, nil
}

// Confirm asks a yes/no question; Enter accepts yes.
func (p *TeaPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	final, err := p.run(ctx, newConfirmModel(question))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.value, nil
}

// Secret reads a masked line.
func (p *TeaPrompter) Secret(ctx context.Context, prompt string) (string, error) {
	final, err := p.run(ctx, newSecretModel(prompt))
	if err != nil {
		return "", err
	}
	m := final.(secretModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.input.Value(), nil
}

const visibleOptions = 15

type selectModel struct {
	title   string
	options []string
	cursor  int
	offset  int
	done    bool
	aborted bool
}

func newSelectModel(title string, options []string) selectModel {
	return selectModel{title: title, options: options}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.options) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleOptions {
		m.offset = m.cursor - visibleOptions + 1
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("? " + m.title))
	if m.done {
		b.WriteString(" " + answerStyle.Render(m.options[m.cursor]) + "\n")
		return b.String()
	}
	if m.aborted {
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")
	end := min(m.offset+visibleOptions, len(m.options))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("❯ ") + selectedStyle.Render(m.options[i]) + "\n")
			continue
		}
		b.WriteString("  " + m.options[i] + "\n")
	}
	if len(m.options) > visibleOptions {
		b.WriteString(hintStyle.Render("(Move up and down to reveal more choices)") + "\n")
	}
	return b.String()
}

type confirmModel struct {
	question string
	value    bool
	done     bool
	aborted  bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question, value: true}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y":
		m.value, m.done = true, true
		return m, tea.Quit
	case "n":
		m.value, m.done = false, true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	q := titleStyle.Render("? " + m.question)
	switch {
	case m.done && m.value:
		return q + " " + answerStyle.Render("Yes") + "\n"
	case m.done:
		return q + " " + answerStyle.Render("No") + "\n"
	case m.aborted:
		return q + "\n"
	}
	return q + " " + hintStyle.Render("(Y/n)") + "\n"
}

type secretModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func newSecretModel(prompt string) secretModel {
	in := textinput.New()
	in.Prompt = titleStyle.Render("? "+prompt) + " "
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	in.Focus()
	return secretModel{input: in}
}

func (m secretModel) Init() tea.Cmd { return textinput.Blink }

func (m secretModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m secretModel) View() string {
	if m.done {
		return m.input.Prompt + hintStyle.Render("[hidden]") + "\n"
	}
	return m.input.View() + "\n"
}
