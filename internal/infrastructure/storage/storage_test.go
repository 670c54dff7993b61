package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/styleselector/core/internal/infrastructure/config"
	"github.com/styleselector/core/internal/infrastructure/logger"
)

func testConfig(t *testing.T) config.StoreConfig {
	t.Helper()
	return config.StoreConfig{
		BaseDir:        filepath.Join(t.TempDir(), "store"),
		StylesFile:     "sdxl_styles.json",
		CategoriesFile: "categories.json",
		ImageDir:       "MGTV",
		CacheCapacity:  2,
	}
}

func TestNew_CreatesEmptyStore(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	raw, err := os.ReadFile(cfg.StylesPath())
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))

	raw, err = os.ReadFile(cfg.CategoriesPath())
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))

	require.DirExists(t, cfg.ImagePath())
	require.NoError(t, s.HealthCheck())

	info := s.GetInfo()
	require.Equal(t, cfg.StylesPath(), info["styles_file"])
	require.Equal(t, false, info["watching"])
}

func TestNew_KeepsExistingDocuments(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.BaseDir, 0o755))
	require.NoError(t, os.WriteFile(cfg.StylesPath(), []byte(`[{"name":"kept"}]`), 0o644))

	s, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	catalog, err := s.Styles.Load(context.Background())
	require.NoError(t, err)
	require.True(t, catalog.Has("kept"))
}

func TestHealthCheck_MissingDocument(t *testing.T) {
	s, err := New(testConfig(t), logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.Remove(s.Categories.Path()))
	require.Error(t, s.Ping())
	require.Error(t, s.HealthCheck())
}

func TestWatch_FlushesCacheOnExternalEdit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Watch = true
	cfg.WatchDebounce = 20 * time.Millisecond

	s, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Styles.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, s.Cache.Len())

	require.NoError(t, os.WriteFile(cfg.StylesPath(), []byte(`[{"name":"external"}]`), 0o644))

	require.Eventually(t, func() bool { return s.Cache.Len() == 0 }, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")
}
