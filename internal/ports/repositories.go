package ports

import (
	"context"
	"time"

	"github.com/styleselector/core/internal/domain/entities"
)

// StyleRepository defines the interface for style catalog persistence.
// Load never fails on unreadable or malformed files; it returns an empty catalog instead.
type StyleRepository interface {
	Load(ctx context.Context) (entities.Catalog, error)
	Save(ctx context.Context, catalog entities.Catalog) error
	Path() string
}

// CategoryRepository defines the interface for category index persistence
type CategoryRepository interface {
	Load(ctx context.Context) (*entities.CategoryIndex, error)
	Save(ctx context.Context, index *entities.CategoryIndex) error
	Path() string
}

// ImageStore defines the interface for preview image files
type ImageStore interface {
	// Save decodes data, stores it as PNG under the style's derived path and returns that path.
	Save(ctx context.Context, styleName string, data []byte) (string, error)
	// Delete removes the style's preview image; it reports whether a file was removed.
	Delete(ctx context.Context, styleName string) (bool, error)
	Path(styleName string) string
	Exists(styleName string) bool
}

// DocumentCache defines the interface for the raw document read cache
type DocumentCache interface {
	Get(path string, modTime time.Time) ([]byte, bool)
	Set(path string, modTime time.Time, data []byte)
	Flush()
}
