package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/cache"
	"github.com/styleselector/core/internal/infrastructure/logger"
)

func newTestStyleRepo(t *testing.T) (*StyleRepositoryImpl, *cache.DocumentCache) {
	t.Helper()
	docs := cache.NewDocumentCache(cache.DefaultCapacity)
	repo, err := NewStyleRepository(filepath.Join(t.TempDir(), "sdxl_styles.json"), docs, logger.NewNop())
	require.NoError(t, err)
	return repo.(*StyleRepositoryImpl), docs
}

func newTestCategoryRepo(t *testing.T) *CategoryRepositoryImpl {
	t.Helper()
	repo, err := NewCategoryRepository(filepath.Join(t.TempDir(), "categories.json"), cache.NewDocumentCache(cache.DefaultCapacity), logger.NewNop())
	require.NoError(t, err)
	return repo.(*CategoryRepositoryImpl)
}

// bumpModTime makes an external edit visible even on filesystems with coarse timestamps.
func bumpModTime(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))
}

func TestStyleRepository_CreatesEmptyCatalog(t *testing.T) {
	repo, _ := newTestStyleRepo(t)

	raw, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(string(raw)))

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, catalog)
	require.Empty(t, catalog)
}

func TestStyleRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStyleRepo(t)

	in := entities.Catalog{
		{Name: "水彩", Prompt: "watercolor <soft>", NegativePrompt: "photo", Category: "🎨 Art"},
		{Name: "Noir", Prompt: "black and white"},
	}
	require.NoError(t, repo.Save(ctx, in))

	raw, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"name": "水彩"`, "non-ASCII is written unescaped")
	require.Contains(t, string(raw), `<soft>`, "HTML characters are not escaped")
	require.Contains(t, string(raw), "\n  {", "two-space indent")

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestStyleRepository_PreservesUnknownFields(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStyleRepo(t)

	require.NoError(t, os.WriteFile(repo.Path(), []byte(`[{"name":"a","prompt":"p","rating":5}]`), 0o644))
	bumpModTime(t, repo.Path())

	catalog, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	catalog[0].Prompt = "changed"
	require.NoError(t, repo.Save(ctx, catalog))

	raw, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"rating": 5`)
	require.Contains(t, string(raw), `"prompt": "changed"`)
}

func TestStyleRepository_InvalidDocumentsLoadEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `[{"name": "a"`},
		{name: "wrong root type", content: `{"name": "a"}`},
		{name: "wrong field type", content: `[{"name": 42}]`},
		{name: "empty file", content: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestStyleRepo(t)
			require.NoError(t, os.WriteFile(repo.Path(), []byte(tt.content), 0o644))
			bumpModTime(t, repo.Path())

			catalog, err := repo.Load(context.Background())
			require.NoError(t, err)
			require.Empty(t, catalog)
		})
	}
}

func TestStyleRepository_BadRecordDroppedAndBackedUp(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStyleRepo(t)

	original := []byte(`[{"name":"Cinematic","prompt":"film still","negative_prompt":"","category":"Film"},{"name":"Broken","category":5}]`)
	require.NoError(t, os.WriteFile(repo.Path(), original, 0o644))
	bumpModTime(t, repo.Path())

	catalog, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	require.Equal(t, "Cinematic", catalog[0].Name)

	require.NoError(t, repo.Save(ctx, append(catalog, entities.StyleRecord{Name: "New"})))

	backup, err := os.ReadFile(repo.Path() + backupSuffix)
	require.NoError(t, err)
	require.Equal(t, original, backup)

	again, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, again, 2)
}

func TestStyleRepository_NullFieldsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStyleRepo(t)

	require.NoError(t, os.WriteFile(repo.Path(), []byte(`[{"name":"Legacy","prompt":null,"negative_prompt":null,"category":null}]`), 0o644))
	bumpModTime(t, repo.Path())

	catalog, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, entities.Catalog{{Name: "Legacy"}}, catalog)

	require.NoError(t, repo.Save(ctx, catalog))
	require.NoFileExists(t, repo.Path()+backupSuffix)
}

func TestStyleRepository_CleanSaveKeepsNoBackup(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStyleRepo(t)

	require.NoError(t, repo.Save(ctx, entities.Catalog{{Name: "a"}}))
	_, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entities.Catalog{{Name: "a"}, {Name: "b"}}))

	require.NoFileExists(t, repo.Path()+backupSuffix)
}

func TestStyleRepository_MalformedDocumentBackedUpBeforeRewrite(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestStyleRepo(t)

	original := []byte(`[{"name": "a"`)
	require.NoError(t, os.WriteFile(repo.Path(), original, 0o644))
	bumpModTime(t, repo.Path())

	catalog, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, catalog)
	require.NoError(t, repo.Save(ctx, entities.Catalog{{Name: "b"}}))

	backup, err := os.ReadFile(repo.Path() + backupSuffix)
	require.NoError(t, err)
	require.Equal(t, original, backup)
}

func TestStyleRepository_MissingFieldsTolerated(t *testing.T) {
	repo, _ := newTestStyleRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte(`[{"name":"only-name"}]`), 0o644))
	bumpModTime(t, repo.Path())

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, entities.Catalog{{Name: "only-name"}}, catalog)
}

func TestStyleRepository_ExternalEditInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo, docs := newTestStyleRepo(t)

	require.NoError(t, repo.Save(ctx, entities.Catalog{{Name: "first"}}))
	_, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, docs.Len())

	require.NoError(t, os.WriteFile(repo.Path(), []byte(`[{"name":"second"}]`), 0o644))
	bumpModTime(t, repo.Path())

	catalog, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", catalog[0].Name)
}

func TestStyleRepository_SaveFlushesCache(t *testing.T) {
	ctx := context.Background()
	repo, docs := newTestStyleRepo(t)

	_, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, docs.Len())

	require.NoError(t, repo.Save(ctx, entities.Catalog{{Name: "a"}}))
	require.Equal(t, 0, docs.Len())

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
}

func TestStyleRepository_CanceledContext(t *testing.T) {
	repo, _ := newTestStyleRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, repo.Save(ctx, entities.Catalog{}), context.Canceled)
}

func TestCategoryRepository_KeepsKeyOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestCategoryRepo(t)

	raw, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	require.Equal(t, "{}", strings.TrimSpace(string(raw)))

	require.NoError(t, os.WriteFile(repo.Path(), []byte(`{"全部":[],"🌟 Zeta":["b"],"Alpha":["a"]}`), 0o644))
	bumpModTime(t, repo.Path())

	index, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"全部", "🌟 Zeta", "Alpha"}, index.Keys())

	index.AddMember("Mid", "c")
	require.NoError(t, repo.Save(ctx, index))

	again, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"全部", "🌟 Zeta", "Alpha", "Mid"}, again.Keys())
	require.Equal(t, []string{"c"}, again.Members("Mid"))

	raw, err = os.ReadFile(repo.Path())
	require.NoError(t, err)
	require.Contains(t, string(raw), "\"🌟 Zeta\": [\n    \"b\"\n  ]")
}

func TestCategoryRepository_InvalidDocumentsLoadEmpty(t *testing.T) {
	for _, content := range []string{`[]`, `{"a": "not-a-list"}`, `{"a": [1]}`, `{`} {
		repo := newTestCategoryRepo(t)
		require.NoError(t, os.WriteFile(repo.Path(), []byte(content), 0o644))
		bumpModTime(t, repo.Path())

		index, err := repo.Load(context.Background())
		require.NoError(t, err, content)
		require.Equal(t, 0, index.Len(), content)
	}
}

func TestCategoryRepository_InvalidDocumentBackedUpBeforeRewrite(t *testing.T) {
	ctx := context.Background()
	repo := newTestCategoryRepo(t)

	original := []byte(`{"Film": ["a"], "Broken": "b"}`)
	require.NoError(t, os.WriteFile(repo.Path(), original, 0o644))
	bumpModTime(t, repo.Path())

	index, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, index.Len())

	index.Ensure("Fresh")
	require.NoError(t, repo.Save(ctx, index))

	backup, err := os.ReadFile(repo.Path() + backupSuffix)
	require.NoError(t, err)
	require.Equal(t, original, backup)
}

func TestCategoryRepository_EmptyMembersWrittenAsArray(t *testing.T) {
	ctx := context.Background()
	repo := newTestCategoryRepo(t)

	index := entities.NewCategoryIndex()
	index.Ensure("Empty")
	require.NoError(t, repo.Save(ctx, index))

	raw, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"Empty": []`)
}
