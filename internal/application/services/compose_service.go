package services

import (
	"context"
	"fmt"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// ComposeService merges style templates into caller prompts
type ComposeService struct {
	styleRepo ports.StyleRepository
	logger    *logger.Logger
}

// NewComposeService creates a new compose service
func NewComposeService(styleRepo ports.StyleRepository, logger *logger.Logger) *ComposeService {
	return &ComposeService{
		styleRepo: styleRepo,
		logger:    logger.WithComponent("compose_service"),
	}
}

// ComposePositive appends the style's positive template to prompt.
// An unknown style leaves prompt unchanged.
func (s *ComposeService) ComposePositive(ctx context.Context, styleName, prompt string) (string, error) {
	style, ok, err := s.lookup(ctx, styleName)
	if err != nil || !ok {
		return prompt, err
	}
	return style.ComposePositive(prompt), nil
}

// ComposeNegative prepends the style's negative template to prompt.
// An unknown style leaves prompt unchanged.
func (s *ComposeService) ComposeNegative(ctx context.Context, styleName, prompt string) (string, error) {
	style, ok, err := s.lookup(ctx, styleName)
	if err != nil || !ok {
		return prompt, err
	}
	return style.ComposeNegative(prompt), nil
}

// ApplyToBatch rewrites every prompt of a batch in place and returns the
// metadata to record with the generated output.
func (s *ComposeService) ApplyToBatch(ctx context.Context, styleName string, positives, negatives []string) (map[string]interface{}, error) {
	style, ok, err := s.lookup(ctx, styleName)
	if err != nil {
		return nil, err
	}

	if ok {
		for i := range positives {
			positives[i] = style.ComposePositive(positives[i])
		}
		for i := range negatives {
			negatives[i] = style.ComposeNegative(negatives[i])
		}
	} else {
		s.logger.Warnw("Selected style not in catalog, prompts left unchanged", "style", styleName)
	}

	s.logger.Debugw("Style applied to batch",
		"style", styleName,
		"positives", len(positives),
		"negatives", len(negatives),
	)

	return map[string]interface{}{
		entities.ParamStyleSelectorEnabled: true,
		entities.ParamStyleSelectorStyle:   styleName,
	}, nil
}

func (s *ComposeService) lookup(ctx context.Context, styleName string) (entities.StyleRecord, bool, error) {
	catalog, err := s.styleRepo.Load(ctx)
	if err != nil {
		return entities.StyleRecord{}, false, fmt.Errorf("failed to load catalog: %w", err)
	}
	i := catalog.Find(styleName)
	if i < 0 {
		return entities.StyleRecord{}, false, nil
	}
	return catalog[i], true, nil
}

// Ensure ComposeService implements ports.ComposeService.
var _ ports.ComposeService = (*ComposeService)(nil)
