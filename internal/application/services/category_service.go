package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/config"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// CategoryService handles category index operations
type CategoryService struct {
	categoryRepo ports.CategoryRepository
	styleRepo    ports.StyleRepository
	allCategory  string
	mu           sync.Locker
	logger       *logger.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, styleRepo ports.StyleRepository, cfg config.StoreConfig, mu sync.Locker, logger *logger.Logger) *CategoryService {
	allCategory := cfg.AllCategory
	if allCategory == "" {
		allCategory = entities.DefaultAllCategory
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		styleRepo:    styleRepo,
		allCategory:  allCategory,
		mu:           mu,
		logger:       logger.WithComponent("category_service"),
	}
}

// ListCategories returns every category except the "show all" sentinel, in stored order.
func (s *CategoryService) ListCategories(ctx context.Context) ([]string, error) {
	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category index: %w", err)
	}

	categories := make([]string, 0, index.Len())
	for _, key := range index.Keys() {
		if key != s.allCategory {
			categories = append(categories, key)
		}
	}
	return categories, nil
}

// AddCategory creates an empty category and returns its stored key
func (s *CategoryService) AddCategory(ctx context.Context, label, emoji string) (string, error) {
	if entities.IsBlank(label) {
		return "", fmt.Errorf("category: %w", entities.ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load category index: %w", err)
	}

	key := entities.CategoryLabel(label, emoji)
	if !index.Ensure(key) {
		return "", fmt.Errorf("category %q: %w", key, entities.ErrAlreadyExists)
	}
	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return "", err
	}

	s.logger.LogStyleAction("add_category", key, nil)
	return key, nil
}

// RenameCategory renames a category in the index and in every style that references it.
// The index is written first.
func (s *CategoryService) RenameCategory(ctx context.Context, oldName, newName string) error {
	if entities.IsBlank(newName) {
		return fmt.Errorf("new category: %w", entities.ErrEmptyName)
	}
	if oldName == newName {
		return fmt.Errorf("category %q: %w", oldName, entities.ErrNoChange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load category index: %w", err)
	}
	if !index.Has(oldName) {
		return fmt.Errorf("category %q: %w", oldName, entities.ErrNotFound)
	}
	if index.Has(newName) {
		return fmt.Errorf("category %q: %w", newName, entities.ErrAlreadyExists)
	}

	index.Rename(oldName, newName)
	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return err
	}

	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	moved := 0
	for i := range catalog {
		if catalog[i].Category == oldName {
			catalog[i].Category = newName
			moved++
		}
	}
	if err := s.styleRepo.Save(ctx, catalog); err != nil {
		return err
	}

	s.logger.LogStyleAction("rename_category", oldName, map[string]interface{}{
		"new_name":     newName,
		"moved_styles": moved,
	})
	return nil
}

// DeleteCategory removes a category; its styles become unassigned.
func (s *CategoryService) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load category index: %w", err)
	}
	if !index.Has(name) {
		return fmt.Errorf("category %q: %w", name, entities.ErrNotFound)
	}

	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	index.Delete(name)
	var unassigned []string
	for i := range catalog {
		if catalog[i].Category == name {
			catalog[i].Category = ""
			unassigned = append(unassigned, catalog[i].Name)
		}
	}
	// Keep an existing unassigned entry in step with the catalog.
	if name != "" && index.Has("") {
		for _, style := range unassigned {
			index.AddMember("", style)
		}
	}

	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return err
	}
	if err := s.styleRepo.Save(ctx, catalog); err != nil {
		return err
	}

	s.logger.LogStyleAction("delete_category", name, map[string]interface{}{
		"unassigned_styles": len(unassigned),
	})
	return nil
}

// Reconcile rebuilds index membership from the catalog.
// Existing categories are kept (even when empty) and keep their order. Categories
// referenced by styles but missing from the index are appended. Unassigned styles
// only get an entry if one already exists. The sentinel entry is left alone.
func (s *CategoryService) Reconcile(ctx context.Context) (*ports.ReconcileReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category index: %w", err)
	}
	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	report := &ports.ReconcileReport{
		Added:   make(map[string][]string),
		Removed: make(map[string][]string),
		Created: []string{},
	}

	want := make(map[string]map[string]bool)
	for _, style := range catalog {
		if style.Name == "" {
			continue
		}
		if want[style.Category] == nil {
			want[style.Category] = make(map[string]bool)
		}
		want[style.Category][style.Name] = true
	}

	for _, key := range index.Keys() {
		if key == s.allCategory {
			continue
		}
		for _, member := range index.Members(key) {
			if !want[key][member] {
				index.RemoveMember(key, member)
				report.Removed[key] = append(report.Removed[key], member)
			}
		}
	}

	for _, style := range catalog {
		if style.Name == "" || style.Category == s.allCategory {
			continue
		}
		if !index.Has(style.Category) {
			if style.Category == "" {
				continue
			}
			index.Ensure(style.Category)
			report.Created = append(report.Created, style.Category)
		}
		if !contains(index.Members(style.Category), style.Name) {
			index.AddMember(style.Category, style.Name)
			report.Added[style.Category] = append(report.Added[style.Category], style.Name)
		}
	}

	if !report.Changed() {
		return report, nil
	}
	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return nil, err
	}

	s.logger.LogStyleAction("reconcile", s.categoryRepo.Path(), map[string]interface{}{
		"added":   len(report.Added),
		"removed": len(report.Removed),
		"created": len(report.Created),
	})
	return report, nil
}

// EmojiChoices returns the emoji offered as category prefixes
func (s *CategoryService) EmojiChoices() []string {
	out := make([]string, len(entities.EmojiChoices))
	copy(out, entities.EmojiChoices)
	return out
}

// AllCategory returns the "show all" sentinel key
func (s *CategoryService) AllCategory() string {
	return s.allCategory
}

func contains(items []string, item string) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}

// Ensure CategoryService implements ports.CategoryService.
var _ ports.CategoryService = (*CategoryService)(nil)
