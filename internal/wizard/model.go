package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

// ErrCanceled is returned when the user leaves the wizard early.
var ErrCanceled = errors.New("wizard canceled")

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	choiceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea configuration wizard.
type Model struct {
	base    model.RunConfig
	answers answers
	steps   []step
	index   int

	cursor int
	input  textinput.Model
	errMsg string

	done     bool
	canceled bool
	result   model.RunConfig
}

// NewModel constructs a wizard that fills in base.
func NewModel(base model.RunConfig) *Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 0
	m := &Model{
		base:    base,
		answers: answers{},
		input:   in,
	}
	m.steps = buildSteps(m.answers, base)
	m.enterStep()
	return m
}

// Run starts the wizard on the terminal and returns the resolved config.
func Run(base model.RunConfig) (model.RunConfig, error) {
	m := NewModel(base)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("failed to run wizard: %w", err)
	}
	wm, ok := final.(*Model)
	if !ok {
		return model.RunConfig{}, fmt.Errorf("unexpected wizard model %T", final)
	}
	return wm.Result()
}

// Result returns the resolved configuration once the wizard has finished.
func (m *Model) Result() (model.RunConfig, error) {
	if m.canceled || !m.done {
		return model.RunConfig{}, ErrCanceled
	}
	return m.result, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.current().kind != kindChoice {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submit()
	}

	cur := m.current()
	if cur.kind == kindChoice {
		switch keyMsg.String() {
		case "up", "k", "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j", "right", "l", "tab":
			if m.cursor < len(cur.choices)-1 {
				m.cursor++
			}
		default:
			if n, err := strconv.Atoi(keyMsg.String()); err == nil && n >= 1 && n <= len(cur.choices) {
				m.cursor = n - 1
				return m.submit()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done || m.canceled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== Caesar Cipher Wizard ==="))
	b.WriteString("\n\n")
	for i := 0; i < m.index; i++ {
		s := m.steps[i]
		b.WriteString(doneStyle.Render(fmt.Sprintf("%s %s", s.prompt, m.answers[s.key])))
		b.WriteString("\n")
	}

	cur := m.current()
	b.WriteString(promptStyle.Render(cur.prompt))
	if cur.kind != kindChoice && cur.def != "" {
		b.WriteString(footerStyle.Render(fmt.Sprintf(" [default: %s]", cur.def)))
	}
	b.WriteString("\n")
	if cur.kind == kindChoice {
		for i, c := range cur.choices {
			line := fmt.Sprintf("  %d) %s", i+1, c)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line[2:]))
			} else {
				b.WriteString(choiceStyle.Render(line))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("enter: confirm  ↑/↓: select  esc: cancel"))
	return b.String()
}

func (m *Model) current() step {
	return m.steps[m.index]
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	cur := m.current()
	var value string
	if cur.kind == kindChoice {
		value = cur.choices[m.cursor]
	} else {
		value = strings.TrimSpace(m.input.Value())
		if cur.key == keyFile {
			value = strings.Trim(value, `"'`)
		}
		if value == "" {
			value = cur.def
		}
	}
	if cur.validate != nil {
		if err := cur.validate(value); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	}
	m.errMsg = ""
	m.answers[cur.key] = value
	m.steps = buildSteps(m.answers, m.base)
	m.index++
	if m.index >= len(m.steps) {
		cfg, err := Resolve(m.answers, m.base)
		if err != nil {
			m.errMsg = err.Error()
			m.index--
			return m, nil
		}
		m.result = cfg
		m.done = true
		return m, tea.Quit
	}
	m.enterStep()
	return m, nil
}

func (m *Model) enterStep() {
	cur := m.current()
	m.cursor = 0
	for i, c := range cur.choices {
		if c == cur.def {
			m.cursor = i
		}
	}
	m.input.Reset()
	m.input.Placeholder = cur.def
	if cur.kind == kindChoice {
		m.input.Blur()
		return
	}
	m.input.Focus()
}
