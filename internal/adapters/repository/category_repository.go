package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// CategoryRepositoryImpl implements CategoryRepository over the category index file
type CategoryRepositoryImpl struct {
	doc *jsonDocument
}

// NewCategoryRepository creates a new category repository, creating an empty index if needed.
func NewCategoryRepository(path string, cache ports.DocumentCache, log *logger.Logger) (ports.CategoryRepository, error) {
	doc, err := newJSONDocument(path, "categories.schema.json", []byte("{}\n"), cache, log.WithComponent("category_repository"))
	if err != nil {
		return nil, err
	}
	return &CategoryRepositoryImpl{doc: doc}, nil
}

// Load reads the index in stored key order. Unreadable or malformed files yield an empty index.
func (r *CategoryRepositoryImpl) Load(ctx context.Context) (*entities.CategoryIndex, error) {
	data, err := r.doc.read(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return entities.NewCategoryIndex(), nil
	}

	index := entities.NewCategoryIndex()
	if err := json.Unmarshal(data, index); err != nil {
		r.doc.markRecovered()
		r.doc.logger.Errorw("Failed to decode category index, treating as empty", "error", err)
		return entities.NewCategoryIndex(), nil
	}
	return index, nil
}

// Save replaces the index file
func (r *CategoryRepositoryImpl) Save(ctx context.Context, index *entities.CategoryIndex) error {
	if index == nil {
		index = entities.NewCategoryIndex()
	}
	if err := r.doc.write(ctx, index, index.Len()); err != nil {
		return fmt.Errorf("failed to save category index: %w", err)
	}
	return nil
}

// Path returns the index file path
func (r *CategoryRepositoryImpl) Path() string {
	return r.doc.path
}
