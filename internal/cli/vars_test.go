package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runVars executes one vars subcommand against the given store path.
func runVars(t *testing.T, db, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format, Locale: "en", DB: db}
	cmd := NewVarsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVarsSetGet(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	out, err := runVars(t, db, "text", "set", "stat_gold", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "stat_gold = 150")

	out, err = runVars(t, db, "text", "get", "stat_gold")
	require.NoError(t, err)
	assert.Equal(t, "150\n", out)
}

func TestVarsSetQuotedString(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	_, err := runVars(t, db, "text", "set", "pin", `"0042"`)
	require.NoError(t, err)

	out, err := runVars(t, db, "text", "get", "pin")
	require.NoError(t, err)
	assert.Equal(t, "0042\n", out)
}

func TestVarsGetMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	out, err := runVars(t, db, "text", "get", "unknown")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "not set")
}

func TestVarsList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	_, err := runVars(t, db, "text", "set", "stat_gold", "150")
	require.NoError(t, err)
	_, err = runVars(t, db, "text", "set", "player_name", "Ann")
	require.NoError(t, err)

	out, err := runVars(t, db, "text", "list")
	require.NoError(t, err)
	assert.Equal(t, "player_name = Ann\nstat_gold = 150\n", out)
}

func TestVarsListJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	_, err := runVars(t, db, "json", "set", "flag_met_vendor", "true")
	require.NoError(t, err)

	out, err := runVars(t, db, "json", "list")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	entries, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "flag_met_vendor", entry["name"])
	assert.Equal(t, "true", entry["value"])
}

func TestVarsDel(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	_, err := runVars(t, db, "text", "set", "stat_gold", "150")
	require.NoError(t, err)
	_, err = runVars(t, db, "text", "del", "stat_gold")
	require.NoError(t, err)

	_, err = runVars(t, db, "text", "get", "stat_gold")
	require.Error(t, err)
}

func TestVarsDelMissingIsNotAnError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	_, err := runVars(t, db, "text", "del", "never_set")
	require.NoError(t, err)
}

func TestVarsClear(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")

	_, err := runVars(t, db, "text", "set", "stat_gold", "150")
	require.NoError(t, err)
	_, err = runVars(t, db, "text", "set", "player_name", "Ann")
	require.NoError(t, err)

	_, err = runVars(t, db, "text", "clear")
	require.NoError(t, err)

	out, err := runVars(t, db, "text", "list")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}
