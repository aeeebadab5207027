package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/palaver/internal/dialogue"
	"github.com/roach88/palaver/internal/vars"
)

func TestTracePlaythrough(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)
	lines := writeFixture(t, "lines.yaml", shopLines)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--lines", lines, "--choose", "0"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "node-start greet")
	assert.Contains(t, output, `line line_greet "Welcome to the shop!"`)
	assert.Contains(t, output, `options 0="Buy a sword" 1="Leave"`)
	assert.Contains(t, output, `command "set $stat_gold 80"`)
	assert.Contains(t, output, `line line_bye "Come again."`)
	assert.Contains(t, output, "complete")
}

func TestTraceLocale(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)
	lines := writeFixture(t, "lines.yaml", shopLines)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "es"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--lines", lines, "--choose", "1"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "¡Bienvenido a la tienda!")
	assert.Contains(t, buf.String(), "Vuelve pronto.")
}

func TestTraceJSON(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", Locale: "en"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--choose", "1"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	report, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, script, report["script"])
	assert.NotEmpty(t, report["run_token"])
	assert.NotEmpty(t, report["events"])
}

func TestTraceWithoutLinesUsesPlaceholders(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--choose", "1"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "((missing line: line_greet))")
}

func TestTraceChoicesExhausted(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "--choose is exhausted")
}

func TestTraceInvalidChoice(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--choose", "5"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTraceSeedsVariablesIntoStore(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)
	db := filepath.Join(t.TempDir(), "save.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en", DB: db}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	// Choice 1 leaves the shop, so the seeded value survives the run.
	cmd.SetArgs([]string{script, "--choose", "1", "--set", "stat_gold=150"})

	err := cmd.Execute()
	require.NoError(t, err)

	store, err := vars.Open(db)
	require.NoError(t, err)
	defer store.Close()

	v, ok, err := store.Get(context.Background(), "stat_gold")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dialogue.Number(150), v)
}

func TestTraceCommandUpdatesStore(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)
	db := filepath.Join(t.TempDir(), "save.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en", DB: db}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--choose", "0", "--set", "stat_gold=150"})

	err := cmd.Execute()
	require.NoError(t, err)

	store, err := vars.Open(db)
	require.NoError(t, err)
	defer store.Close()

	v, ok, err := store.Get(context.Background(), "stat_gold")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dialogue.Number(80), v)
}

func TestTraceBadSetFlag(t *testing.T) {
	script := writeFixture(t, "shop.yaml", shopScript)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Locale: "en"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{script, "--set", "no-equals-sign"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
