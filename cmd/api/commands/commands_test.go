package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/styleselector/core/internal/domain/entities"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--base-dir", dir, "--log-level", "error"}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestCommands_StyleLifecycle(t *testing.T) {
	t.Setenv("STYLE_SELECTOR_SETTLE_DELAY", "0s")
	dir := t.TempDir()

	out, err := run(t, dir, "category", "add", "Portrait", "--emoji", "🎨")
	require.NoError(t, err)
	require.Contains(t, out, "✅")

	out, err = run(t, dir, "style", "add", "Studio",
		"--prompt", "studio photo",
		"--negative", "blurry",
		"--category", "🎨 Portrait",
	)
	require.NoError(t, err)
	require.Contains(t, out, "Style added")

	_, err = run(t, dir, "style", "add", "Studio")
	require.Error(t, err, "duplicate names are rejected")

	out, err = run(t, dir, "style", "list", "--category", "🎨 Portrait")
	require.NoError(t, err)
	require.Equal(t, "Studio\n", out)

	out, err = run(t, dir, "style", "show", "Studio")
	require.NoError(t, err)
	var record entities.StyleRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &record))
	require.Equal(t, "studio photo", record.Prompt)
	require.Equal(t, "blurry", record.NegativePrompt)

	out, err = run(t, dir, "compose", "Studio", "--prompt", "a cat", "--negative", "text")
	require.NoError(t, err)
	require.Equal(t, "positive: a cat, studio photo\nnegative: blurry, text\n", out)

	_, err = run(t, dir, "category", "rename", "🎨 Portrait", "People")
	require.NoError(t, err)
	out, err = run(t, dir, "category", "list")
	require.NoError(t, err)
	require.Equal(t, "People\n", out)

	_, err = run(t, dir, "style", "delete", "Studio")
	require.NoError(t, err)
	out, err = run(t, dir, "style", "list", "--all")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestCommands_ShowJSONAndMissing(t *testing.T) {
	t.Setenv("STYLE_SELECTOR_SETTLE_DELAY", "0s")
	dir := t.TempDir()

	_, err := run(t, dir, "style", "add", "Ink", "--prompt", "ink drawing")
	require.NoError(t, err)

	out, err := run(t, dir, "style", "show", "Ink", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"prompt": "ink drawing"`)

	_, err = run(t, dir, "style", "show", "Ink", "-o", "toml")
	require.Error(t, err)

	_, err = run(t, dir, "style", "show", "Nope")
	require.Error(t, err)
}

func TestCommands_Reconcile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sdxl_styles.json"),
		[]byte(`[{"name":"A","prompt":"","negative_prompt":"","category":"Fresh"}]`), 0o644))

	out, err := run(t, dir, "reconcile")
	require.NoError(t, err)
	require.Contains(t, out, "Fresh")

	out, err = run(t, dir, "reconcile")
	require.NoError(t, err)
	require.NotContains(t, out, "created")
}

func TestCommands_Version(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	require.Equal(t, "Style Selector v"+Version+"\n", out)
}
