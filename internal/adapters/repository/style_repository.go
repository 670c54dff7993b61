package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// StyleRepositoryImpl implements StyleRepository over the style catalog file
type StyleRepositoryImpl struct {
	doc    *jsonDocument
	record *jsonschema.Schema
}

// NewStyleRepository creates a new style repository, creating an empty catalog if needed.
func NewStyleRepository(path string, cache ports.DocumentCache, log *logger.Logger) (ports.StyleRepository, error) {
	doc, err := newJSONDocument(path, "catalog.schema.json", []byte("[]\n"), cache, log.WithComponent("style_repository"))
	if err != nil {
		return nil, err
	}
	record, err := compileSchema("style.schema.json")
	if err != nil {
		return nil, err
	}
	return &StyleRepositoryImpl{doc: doc, record: record}, nil
}

// Load reads the catalog. Unreadable or malformed files yield an empty catalog;
// records of the wrong shape are dropped one by one and the rest are kept.
func (r *StyleRepositoryImpl) Load(ctx context.Context) (entities.Catalog, error) {
	data, err := r.doc.read(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return entities.Catalog{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.doc.markRecovered()
		r.doc.logger.Errorw("Failed to decode catalog, treating as empty", "error", err)
		return entities.Catalog{}, nil
	}

	catalog := make(entities.Catalog, 0, len(raw))
	for i, item := range raw {
		style, err := r.decodeRecord(item)
		if err != nil {
			r.doc.markRecovered()
			r.doc.logger.Errorw("Skipping unreadable style record", "index", i, "error", err)
			continue
		}
		catalog = append(catalog, style)
	}
	return catalog, nil
}

func (r *StyleRepositoryImpl) decodeRecord(item json.RawMessage) (entities.StyleRecord, error) {
	var generic interface{}
	if err := json.Unmarshal(item, &generic); err != nil {
		return entities.StyleRecord{}, err
	}
	if err := r.record.Validate(generic); err != nil {
		return entities.StyleRecord{}, fmt.Errorf("%w: %v", entities.ErrInvalidDocument, err)
	}

	var style entities.StyleRecord
	if err := json.Unmarshal(item, &style); err != nil {
		return entities.StyleRecord{}, err
	}
	return style, nil
}

// Save replaces the catalog file
func (r *StyleRepositoryImpl) Save(ctx context.Context, catalog entities.Catalog) error {
	if catalog == nil {
		catalog = entities.Catalog{}
	}
	if err := r.doc.write(ctx, catalog, len(catalog)); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// Path returns the catalog file path
func (r *StyleRepositoryImpl) Path() string {
	return r.doc.path
}
