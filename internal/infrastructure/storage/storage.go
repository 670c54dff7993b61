// Package storage opens the on-disk style store: both JSON documents, the preview
// directory and the read cache in front of them.
package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/styleselector/core/internal/adapters/repository"
	"github.com/styleselector/core/internal/infrastructure/cache"
	"github.com/styleselector/core/internal/infrastructure/config"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/infrastructure/watcher"
	"github.com/styleselector/core/internal/ports"
)

// Storage holds the repositories over one store directory
type Storage struct {
	Styles     ports.StyleRepository
	Categories ports.CategoryRepository
	Images     ports.ImageStore
	Cache      *cache.DocumentCache
	// Mutations serializes read-modify-write cycles over this store within the process.
	// Other processes editing the same files are only noticed through the watcher.
	Mutations *sync.Mutex

	config  config.StoreConfig
	logger  *logger.Logger
	watcher *watcher.Watcher
	done    chan struct{}
	once    sync.Once
}

// New opens the store, creating empty documents and the preview directory on first run.
func New(cfg config.StoreConfig, log *logger.Logger) (*Storage, error) {
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	docs := cache.NewDocumentCache(cfg.CacheCapacity)

	styles, err := repository.NewStyleRepository(cfg.StylesPath(), docs, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open style catalog: %w", err)
	}
	categories, err := repository.NewCategoryRepository(cfg.CategoriesPath(), docs, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open category index: %w", err)
	}
	images, err := repository.NewImageStore(cfg.ImagePath(), cfg.PreviewMaxSize, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open preview directory: %w", err)
	}

	s := &Storage{
		Styles:     styles,
		Categories: categories,
		Images:     images,
		Cache:      docs,
		Mutations:  &sync.Mutex{},
		config:     cfg,
		logger:     log.WithComponent("storage"),
		done:       make(chan struct{}),
	}

	if cfg.Watch {
		if err := s.startWatcher(); err != nil {
			return nil, err
		}
	}

	s.logger.Infow("Style store opened",
		"styles", cfg.StylesPath(),
		"categories", cfg.CategoriesPath(),
		"images", cfg.ImagePath(),
		"watch", cfg.Watch,
	)
	return s, nil
}

// startWatcher flushes the read cache whenever another program edits a document.
func (s *Storage) startWatcher() error {
	wcfg := watcher.DefaultConfig(s.config.StylesPath(), s.config.CategoriesPath())
	if s.config.WatchDebounce > 0 {
		wcfg.DebounceDur = s.config.WatchDebounce
	}
	wcfg.OnError = func(err error) {
		s.logger.Warnw("Document watcher error", "error", err)
	}

	w, err := watcher.New(wcfg)
	if err != nil {
		return fmt.Errorf("failed to create document watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return fmt.Errorf("failed to start document watcher: %w", err)
	}
	s.watcher = w

	go func() {
		for {
			select {
			case <-changes:
				s.Cache.Flush()
				s.logger.Debugw("Document changed on disk, cache flushed")
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the document watcher if one is running
func (s *Storage) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Stop()
		}
	})
	return err
}

// Ping checks that both documents are still present
func (s *Storage) Ping() error {
	for _, path := range []string{s.Styles.Path(), s.Categories.Path()} {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
	}
	return nil
}

// HealthCheck checks the documents and the preview directory
func (s *Storage) HealthCheck() error {
	if err := s.Ping(); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}

	info, err := os.Stat(s.config.ImagePath())
	if err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store health check failed: %s is not a directory", s.config.ImagePath())
	}
	return nil
}

// GetInfo returns store locations and cache statistics
func (s *Storage) GetInfo() map[string]interface{} {
	info := map[string]interface{}{
		"styles_file":     s.Styles.Path(),
		"categories_file": s.Categories.Path(),
		"image_dir":       s.config.ImagePath(),
		"cached_docs":     s.Cache.Len(),
		"cache_capacity":  s.config.CacheCapacity,
		"watching":        s.watcher != nil,
	}

	for key, path := range map[string]string{"styles_bytes": s.Styles.Path(), "categories_bytes": s.Categories.Path()} {
		if st, err := os.Stat(path); err == nil {
			info[key] = st.Size()
		}
	}
	return info
}
