package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// StyleService handles style catalog operations
type StyleService struct {
	styleRepo    ports.StyleRepository
	categoryRepo ports.CategoryRepository
	images       ports.ImageStore
	mu           sync.Locker
	logger       *logger.Logger
}

// NewStyleService creates a new style service.
// mu must be the lock shared by every service writing the same store.
func NewStyleService(styleRepo ports.StyleRepository, categoryRepo ports.CategoryRepository, images ports.ImageStore, mu sync.Locker, logger *logger.Logger) *StyleService {
	return &StyleService{
		styleRepo:    styleRepo,
		categoryRepo: categoryRepo,
		images:       images,
		mu:           mu,
		logger:       logger.WithComponent("style_service"),
	}
}

// ListStyleNames returns the sorted names of styles in category.
// An empty category lists unassigned styles.
func (s *StyleService) ListStyleNames(ctx context.Context, category string) ([]string, error) {
	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.NamesIn(category), nil
}

// ListAllStyleNames returns every style name, sorted
func (s *StyleService) ListAllStyleNames(ctx context.Context) ([]string, error) {
	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.Names(), nil
}

// GetStyleDetails returns the style named name, or a zero record if there is none.
func (s *StyleService) GetStyleDetails(ctx context.Context, name string) (entities.StyleRecord, error) {
	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return entities.StyleRecord{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	if i := catalog.Find(name); i >= 0 {
		return catalog[i], nil
	}
	return entities.StyleRecord{}, nil
}

// GetStyleImage returns the preview image path recorded for a style
func (s *StyleService) GetStyleImage(ctx context.Context, name string) (string, bool, error) {
	style, err := s.GetStyleDetails(ctx, name)
	if err != nil {
		return "", false, err
	}
	return style.Image, style.HasImage(), nil
}

// AddStyle appends a new style and records it under its category
func (s *StyleService) AddStyle(ctx context.Context, req ports.AddStyleRequest) (*entities.StyleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if catalog.Has(req.Name) {
		return nil, fmt.Errorf("style %q: %w", req.Name, entities.ErrDuplicateName)
	}
	if entities.IsBlank(req.Name) {
		return nil, fmt.Errorf("style: %w", entities.ErrEmptyName)
	}

	style := entities.StyleRecord{
		Name:           req.Name,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Category:       req.Category,
	}
	if len(req.Image) > 0 {
		path, err := s.images.Save(ctx, req.Name, req.Image)
		if err != nil {
			return nil, err
		}
		style.Image = path
	}

	catalog = append(catalog, style)
	if err := s.styleRepo.Save(ctx, catalog); err != nil {
		if style.HasImage() {
			if _, delErr := s.images.Delete(context.WithoutCancel(ctx), req.Name); delErr != nil {
				s.logger.Warnw("Failed to remove preview of unsaved style", "style", req.Name, "error", delErr)
			}
		}
		return nil, err
	}

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category index: %w", err)
	}
	index.AddMember(req.Category, req.Name)
	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return nil, err
	}

	s.logger.LogStyleAction("add_style", req.Name, map[string]interface{}{
		"category":  req.Category,
		"has_image": style.HasImage(),
	})

	return &style, nil
}

// ModifyStyle replaces a style's templates and category, and its image when a new one is given.
func (s *StyleService) ModifyStyle(ctx context.Context, req ports.ModifyStyleRequest) (*entities.StyleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	i := catalog.Find(req.Name)
	if i < 0 {
		return nil, fmt.Errorf("style %q: %w", req.Name, entities.ErrNotFound)
	}

	style := &catalog[i]
	oldCategory := style.Category
	style.Prompt = req.Prompt
	style.NegativePrompt = req.NegativePrompt
	style.Category = req.Category
	if len(req.Image) > 0 {
		path, err := s.images.Save(ctx, req.Name, req.Image)
		if err != nil {
			return nil, err
		}
		style.Image = path
	}

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category index: %w", err)
	}
	index.RemoveMember(oldCategory, req.Name)
	index.AddMember(req.Category, req.Name)
	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return nil, err
	}

	if err := s.styleRepo.Save(ctx, catalog); err != nil {
		return nil, err
	}

	s.logger.LogStyleAction("modify_style", req.Name, map[string]interface{}{
		"old_category": oldCategory,
		"category":     req.Category,
		"new_image":    len(req.Image) > 0,
	})

	updated := *style
	return &updated, nil
}

// DeleteStyle removes a style, its preview image and its membership in category.
func (s *StyleService) DeleteStyle(ctx context.Context, name, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if !catalog.Has(name) {
		return fmt.Errorf("style %q: %w", name, entities.ErrNotFound)
	}

	removedImage, err := s.images.Delete(ctx, name)
	if err != nil {
		return err
	}

	if err := s.styleRepo.Save(ctx, catalog.Without(name)); err != nil {
		return err
	}

	index, err := s.categoryRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load category index: %w", err)
	}
	index.RemoveMember(category, name)
	if err := s.categoryRepo.Save(ctx, index); err != nil {
		return err
	}

	s.logger.LogStyleAction("delete_style", name, map[string]interface{}{
		"category":      category,
		"removed_image": removedImage,
	})

	return nil
}

// Ensure StyleService implements ports.StyleService.
var _ ports.StyleService = (*StyleService)(nil)
