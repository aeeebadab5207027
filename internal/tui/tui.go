// Package tui is the full-screen dialogue player.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/palaver/internal/runner"
)

type playState int

const (
	statePlaying playState = iota
	stateChoosing
	stateFinished
	stateError
)

var (
	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			PaddingLeft(1).
			PaddingRight(1)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)
)

// transcript accumulates run output. The bubbletea model is copied by
// value on every update, so the notification handler writes through a
// shared pointer instead of a model field.
type transcript struct {
	entries []string
	options []runner.ResolvedOption
}

func (t *transcript) handle(n runner.Notification) error {
	switch n.Kind {
	case runner.KindLine:
		t.entries = append(t.entries, lineStyle.Render(n.Line.Text))
	case runner.KindCommand:
		t.entries = append(t.entries, commandStyle.Render("("+n.Command+")"))
	case runner.KindOptions:
		t.options = n.Options
	case runner.KindComplete:
		t.entries = append(t.entries, doneStyle.Render("* The conversation ends. *"))
	}
	return nil
}

type model struct {
	state    playState
	runner   *runner.Runner
	start    string
	log      *transcript
	viewport viewport.Model
	// choiceInput buffers typed digits when the option set is too large
	// for single-key selection.
	choiceInput string
	err         error
	width       int
	height      int
	ready       bool
}

// NewModel creates the player model. The run starts on Init.
func NewModel(r *runner.Runner, start string) model {
	log := &transcript{}
	r.SubscribeAll(log.handle)
	return model{
		runner: r,
		start:  start,
		log:    log,
	}
}

type startedMsg struct {
	err error
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.runner.Start(context.Background(), m.start)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q", "esc":
			m.runner.Stop()
			return m, tea.Quit

		case "enter", " ":
			if m.state == stateFinished {
				return m, tea.Quit
			}
			if m.state == stateChoosing {
				if m.choiceInput == "" {
					return m, nil
				}
				index, _ := strconv.Atoi(m.choiceInput)
				m.choiceInput = ""
				if index >= len(m.log.options) {
					return m, nil
				}
				return m.step(m.runner.SelectOption(context.Background(), index))
			}
			if m.state == statePlaying {
				return m.step(m.runner.Continue(context.Background()))
			}

		case "backspace":
			if m.state == stateChoosing && m.choiceInput != "" {
				m.choiceInput = m.choiceInput[:len(m.choiceInput)-1]
			}

		default:
			if m.state == stateChoosing && len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
				// Ten or fewer options map one key to one option. Larger
				// sets buffer digits until Enter confirms the index.
				if len(m.log.options) <= 10 {
					index, _ := strconv.Atoi(key)
					if index >= len(m.log.options) {
						return m, nil
					}
					return m.step(m.runner.SelectOption(context.Background(), index))
				}
				m.choiceInput += key
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refresh()

	case startedMsg:
		return m.step(msg.err)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// step folds the outcome of a runner call into the display state.
func (m model) step(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		m.state = stateError
		return m, nil
	}
	switch state := m.runner.State(); {
	case state.Finished:
		m.state = stateFinished
	case state.AwaitingChoice:
		m.state = stateChoosing
	default:
		m.state = statePlaying
	}
	m.refresh()
	return m, nil
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.log.entries, "\n\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if m.state == stateError {
		return fmt.Sprintf("\n  Error: %v\n\nPress q to quit.\n", m.err)
	}
	if !m.ready {
		return "\n  Loading...\n"
	}

	var footer string
	switch m.state {
	case stateChoosing:
		var parts []string
		for _, opt := range m.log.options {
			label := fmt.Sprintf("[%d] %s", opt.Index, opt.Text)
			if opt.Enabled {
				parts = append(parts, optionStyle.Render(label))
			} else {
				parts = append(parts, disabledStyle.Render(label))
			}
		}
		footer = strings.Join(parts, "  ") + "\n"
		if len(m.log.options) > 10 {
			footer += "> " + m.choiceInput + "\n" +
				helpStyle.Render("Type an option number and press Enter. q quits.")
		} else {
			footer += helpStyle.Render("Press a number to choose. q quits.")
		}
	case stateFinished:
		footer = helpStyle.Render("Press Enter or q to quit.")
	default:
		footer = helpStyle.Render("Press Enter to continue. q quits.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		"",
		footer,
	) + "\n"
}

// Run plays a dialogue from the given start node in the alternate screen.
func Run(r *runner.Runner, start string) error {
	p := tea.NewProgram(NewModel(r, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
