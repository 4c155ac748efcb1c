package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrPromptCancelled = errors.New("cancelled")

type promptModel struct {
	input     textinput.Model
	label     string
	done      bool
	cancelled bool
}

func newPromptModel(label string, secret bool) promptModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return promptModel{input: ti, label: label}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return LabelStyle.UnsetWidth().Render(m.label) + " " + m.input.View() + "\n"
}

// Prompt reads one line from the terminal. Secret input is masked.
func Prompt(label string, secret bool) (string, error) {
	final, err := tea.NewProgram(newPromptModel(label, secret)).Run()
	if err != nil {
		return "", err
	}
	m := final.(promptModel)
	if m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.input.Value(), nil
}
