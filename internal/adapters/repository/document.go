package repository

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// backupSuffix names the copy kept of a document that was only partly readable.
const backupSuffix = ".bak"

// jsonDocument is one whole-file JSON document: validated on read, rewritten in full on save.
// A document read back as empty or with records dropped is copied aside before the next write.
type jsonDocument struct {
	path   string
	empty  []byte
	schema *jsonschema.Schema
	cache  ports.DocumentCache
	logger *logger.Logger

	mu        sync.Mutex
	recovered bool
}

func newJSONDocument(path, schemaName string, empty []byte, cache ports.DocumentCache, log *logger.Logger) (*jsonDocument, error) {
	schema, err := compileSchema(schemaName)
	if err != nil {
		return nil, err
	}

	doc := &jsonDocument{
		path:   path,
		empty:  empty,
		schema: schema,
		cache:  cache,
		logger: log.WithDocument(path),
	}

	if err := doc.ensure(); err != nil {
		return nil, err
	}
	return doc, nil
}

func compileSchema(name string) (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return schema, nil
}

// ensure creates the document with its empty value on first run.
func (d *jsonDocument) ensure() error {
	if _, err := os.Stat(d.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", d.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", d.path, err)
	}
	if err := writeFileAtomic(d.path, d.empty); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", d.path, err)
	}
	d.logger.Infow("Created empty document")
	return nil
}

// read returns the validated document bytes, or nil when the file is missing,
// unreadable or fails validation. Those cases are logged, not returned.
func (d *jsonDocument) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(d.path)
	if err != nil {
		d.setRecovered(!errors.Is(err, os.ErrNotExist))
		d.logger.Errorw("Failed to stat document, treating as empty", "error", err)
		return nil, nil
	}

	if data, ok := d.cache.Get(d.path, info.ModTime()); ok {
		return data, nil
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		d.setRecovered(true)
		d.logger.Errorw("Failed to read document, treating as empty", "error", err)
		return nil, nil
	}

	if err := d.validate(data); err != nil {
		d.setRecovered(len(bytes.TrimSpace(data)) > 0)
		d.logger.Errorw("Document failed validation, treating as empty", "error", err)
		return nil, nil
	}

	d.setRecovered(false)
	d.cache.Set(d.path, info.ModTime(), data)
	return data, nil
}

// markRecovered records that the caller kept only part of what read returned.
func (d *jsonDocument) markRecovered() {
	d.setRecovered(true)
}

func (d *jsonDocument) setRecovered(v bool) {
	d.mu.Lock()
	d.recovered = v
	d.mu.Unlock()
}

func (d *jsonDocument) validate(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidDocument, err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidDocument, err)
	}
	return nil
}

// write replaces the whole document and flushes the read cache.
func (d *jsonDocument) write(ctx context.Context, v interface{}, entries int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.backupIfRecovered(); err != nil {
		return fmt.Errorf("back up %s: %w", filepath.Base(d.path), err)
	}

	start := time.Now()
	data, err := encodeDocument(v)
	if err == nil {
		err = writeFileAtomic(d.path, data)
	}
	d.cache.Flush()
	if err == nil {
		d.setRecovered(false)
	}

	d.logger.LogStoreWrite(d.path, entries, float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(d.path), err)
	}
	return nil
}

// backupIfRecovered copies the file on disk to <path>.bak when the last read could not keep
// all of it, so a rewrite never silently drops what the store failed to understand.
func (d *jsonDocument) backupIfRecovered() error {
	d.mu.Lock()
	recovered := d.recovered
	d.mu.Unlock()
	if !recovered {
		return nil
	}

	old, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	backup := d.path + backupSuffix
	if err := writeFileAtomic(backup, old); err != nil {
		return err
	}
	d.logger.Warnw("Kept a copy of the unreadable document before rewriting it", "backup", backup)
	return nil
}

// encodeDocument renders v with two-space indent and without escaping non-ASCII or HTML.
func encodeDocument(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
