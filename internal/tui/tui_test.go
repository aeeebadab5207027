package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/palaver/internal/command"
	"github.com/roach88/palaver/internal/lines"
	"github.com/roach88/palaver/internal/runner"
	"github.com/roach88/palaver/internal/runtime"
	"github.com/roach88/palaver/internal/vars"
)

const script = `id: shop
startNodeId: greet
nodes:
  greet:
    content: greeting
    lineId: line_greet
    next: offer
  offer:
    choices:
      - id: buy
        lineId: line_buy
        next: bye
      - id: leave
        lineId: line_leave
        next: bye
  bye:
    content: farewell
    lineId: line_bye
`

var table = map[string]string{
	"line_greet": "Welcome to the shop!",
	"line_buy":   "Buy a sword",
	"line_leave": "Leave",
	"line_bye":   "Come again.",
}

func newTestModel(t *testing.T) model {
	t.Helper()
	w := runtime.NewWalker()
	require.NoError(t, w.Load([]byte(script)))
	r := runner.New(w, vars.NewMemory(), lines.NewStatic(table), command.DefaultRouter())
	return NewModel(r, "greet")
}

// start sizes the model and replays the Init command's message.
func start(t *testing.T, m model) model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(model)
	next, _ = m.Update(m.Init()())
	return next.(model)
}

func press(m model, key tea.KeyMsg) model {
	next, _ := m.Update(key)
	return next.(model)
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func digit(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelShowsFirstLine(t *testing.T) {
	m := start(t, newTestModel(t))

	assert.Equal(t, statePlaying, m.state)
	require.NotEmpty(t, m.log.entries)
	assert.Contains(t, m.log.entries[0], "Welcome to the shop!")
	assert.Contains(t, m.View(), "Press Enter to continue")
}

func TestModelOffersChoices(t *testing.T) {
	m := start(t, newTestModel(t))
	m = press(m, enter())

	assert.Equal(t, stateChoosing, m.state)
	require.Len(t, m.log.options, 2)
	view := m.View()
	assert.Contains(t, view, "[0] Buy a sword")
	assert.Contains(t, view, "[1] Leave")
	assert.Contains(t, view, "Press a number to choose")
}

func TestModelSelectsByDigit(t *testing.T) {
	m := start(t, newTestModel(t))
	m = press(m, enter())
	m = press(m, digit('1'))

	assert.Equal(t, statePlaying, m.state)
	last := m.log.entries[len(m.log.entries)-1]
	assert.Contains(t, last, "Come again.")
}

func TestModelIgnoresOutOfRangeDigit(t *testing.T) {
	m := start(t, newTestModel(t))
	m = press(m, enter())
	m = press(m, digit('7'))

	assert.Equal(t, stateChoosing, m.state)
}

func TestModelFinishes(t *testing.T) {
	m := start(t, newTestModel(t))
	m = press(m, enter())
	m = press(m, digit('0'))
	m = press(m, enter())

	assert.Equal(t, stateFinished, m.state)
	last := m.log.entries[len(m.log.entries)-1]
	assert.Contains(t, last, "The conversation ends.")
	assert.Contains(t, m.View(), "Press Enter or q to quit")
}

// wideScript offers more choices than single-key selection can address.
func wideScript() string {
	var b strings.Builder
	b.WriteString("startNodeId: hub\nnodes:\n  hub:\n    choices:\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "      - id: opt_%02d\n        next: bye\n", i)
	}
	b.WriteString("  bye:\n    content: farewell\n    lineId: line_bye\n")
	return b.String()
}

func TestModelMultiDigitChoice(t *testing.T) {
	w := runtime.NewWalker()
	require.NoError(t, w.Load([]byte(wideScript())))
	r := runner.New(w, vars.NewMemory(), lines.NewStatic(table), command.DefaultRouter())
	m := start(t, NewModel(r, "hub"))

	require.Equal(t, stateChoosing, m.state)
	require.Len(t, m.log.options, 12)
	assert.Contains(t, m.View(), "press Enter")

	m = press(m, digit('1'))
	m = press(m, digit('1'))
	assert.Equal(t, stateChoosing, m.state, "digits buffer until confirmed")
	assert.Contains(t, m.View(), "> 11")

	m = press(m, enter())
	assert.Equal(t, statePlaying, m.state)
	last := m.log.entries[len(m.log.entries)-1]
	assert.Contains(t, last, "Come again.")
}

func TestModelMultiDigitBackspace(t *testing.T) {
	w := runtime.NewWalker()
	require.NoError(t, w.Load([]byte(wideScript())))
	r := runner.New(w, vars.NewMemory(), lines.NewStatic(table), command.DefaultRouter())
	m := start(t, NewModel(r, "hub"))

	m = press(m, digit('1'))
	m = press(m, backspace())
	m = press(m, digit('2'))
	m = press(m, enter())

	assert.Equal(t, statePlaying, m.state, "backspace edits the buffered index")
}

func backspace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyBackspace}
}

func TestModelEnterIgnoredWhileChoosing(t *testing.T) {
	m := start(t, newTestModel(t))
	m = press(m, enter())
	m = press(m, enter())

	assert.Equal(t, stateChoosing, m.state)
}
