package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliadapter "github.com/example/portplan/internal/adapters/cli"
	"github.com/example/portplan/internal/adapters/filesystem"
	"github.com/example/portplan/internal/app"
	"github.com/example/portplan/internal/core/tree"
)

func TestRootCmdStructure(t *testing.T) {
	root := RootCmd()

	want := map[string][]string{
		"ships":   {"list", "show", "validate"},
		"edit":    nil,
		"schema":  nil,
		"serve":   nil,
		"config":  {"init", "show"},
		"version": nil,
	}
	for name, subs := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short, name)
		for _, sub := range subs {
			found, _, err := root.Find([]string{name, sub})
			require.NoError(t, err)
			assert.Equal(t, sub, found.Name())
		}
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := VersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "portplan dev (commit: "))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portplan.yaml")
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "✓ Wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: dir")

	root = RootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, root.Execute(), "refuses to overwrite")
}

func newEditor(t *testing.T, dir string) *app.EditorServiceImpl {
	t.Helper()
	store, err := filesystem.NewShipStore(dir)
	require.NoError(t, err)
	editor := app.NewEditorService(store, app.DefaultShipModel(2), tree.Options{}, zerolog.Nop())
	t.Cleanup(editor.Close)
	return editor
}

func TestRunEdit(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`"nope"`), 0644))
	editor := newEditor(t, dir)

	// Rows after add-ship: 1 ship, 2-5 fields, 6 add door, 7 add ship.
	script := "add-ship\nset 1 Aurora\nclick 6\nsave\nquit\n"
	var out bytes.Buffer
	prompt := cliadapter.NewPrompt(strings.NewReader(script), &out)

	require.NoError(t, runEdit(context.Background(), editor, prompt, &out))
	s := out.String()
	assert.Contains(t, s, "Loaded 0 ships")
	assert.Contains(t, s, "skipped")
	assert.Contains(t, s, "Door 1")
	assert.Contains(t, s, "✓ Saved Aurora")

	_, err := os.Stat(filepath.Join(dir, "Aurora.json"))
	assert.NoError(t, err)
}

func TestAutosaveLoopSavesOnShutdown(t *testing.T) {
	dir := t.TempDir()
	editor := newEditor(t, dir)
	ctx := context.Background()
	id, err := editor.AddShip(ctx)
	require.NoError(t, err)
	require.NoError(t, editor.Edit(ctx, id, "Aurora"))

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, autosaveLoop(ctx, editor, time.Hour, zerolog.Nop()))

	_, err = os.Stat(filepath.Join(dir, "Aurora.json"))
	assert.NoError(t, err)
}
