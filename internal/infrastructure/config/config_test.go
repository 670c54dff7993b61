package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithoutDotEnv())
	require.NoError(t, err)

	require.Equal(t, "sdxl_styles.json", cfg.Store.StylesFile)
	require.Equal(t, "categories.json", cfg.Store.CategoriesFile)
	require.Equal(t, "全部", cfg.Store.AllCategory)
	require.Equal(t, 2, cfg.Store.CacheCapacity)
	require.Equal(t, 300*time.Millisecond, cfg.Store.SettleDelay)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, "127.0.0.1:7861", cfg.Server.GetAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STYLE_SELECTOR_BASE_DIR", dir)
	t.Setenv("STYLE_SELECTOR_SETTLE_DELAY", "0s")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load(WithoutDotEnv())
	require.NoError(t, err)

	require.Equal(t, dir, cfg.Store.BaseDir)
	require.Equal(t, filepath.Join(dir, "sdxl_styles.json"), cfg.Store.StylesPath())
	require.Equal(t, filepath.Join(dir, "MGTV"), cfg.Store.ImagePath())
	require.Zero(t, cfg.Store.SettleDelay)
	require.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "styleselector.yaml")
	require.NoError(t, os.WriteFile(file, []byte("store:\n  styles_file: mine.json\n  all_category: All\nlogger:\n  format: json\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--base-dir", dir}))

	cfg, err := Load(WithoutDotEnv(), WithConfigFile(file), WithFlags(flags))
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "mine.json"), cfg.Store.StylesPath())
	require.Equal(t, "All", cfg.Store.AllCategory)
	require.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_RejectsSameFileForBothDocuments(t *testing.T) {
	t.Setenv("STYLE_SELECTOR_CATEGORIES_FILE", "sdxl_styles.json")

	_, err := Load(WithoutDotEnv())
	require.Error(t, err)
	require.Contains(t, err.Error(), "different files")
}

func TestStoreConfig_AbsolutePathsWin(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "styles.json")
	cfg := StoreConfig{BaseDir: "/somewhere", StylesFile: abs}

	require.Equal(t, abs, cfg.StylesPath())
}
