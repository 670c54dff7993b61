package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"

	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/ports"
)

// ImageStoreImpl keeps style preview images as PNG files in one directory
type ImageStoreImpl struct {
	dir     string
	maxSize int
	logger  *logger.Logger
}

// NewImageStore creates a new image store rooted at dir.
// Images larger than maxSize on either side are scaled down to fit; 0 keeps the original size.
func NewImageStore(dir string, maxSize int, log *logger.Logger) (ports.ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStoreImpl{
		dir:     dir,
		maxSize: maxSize,
		logger:  log.WithComponent("image_store"),
	}, nil
}

// Save decodes data (any format imaging understands) and writes it as <dir>/<name>.png.
func (s *ImageStoreImpl) Save(ctx context.Context, styleName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	if s.maxSize > 0 && (bounds.Dx() > s.maxSize || bounds.Dy() > s.maxSize) {
		img = imaging.Fit(img, s.maxSize, s.maxSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode preview image: %w", err)
	}

	path := s.Path(styleName)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write preview image: %w", err)
	}

	s.logger.Debugw("Preview image saved",
		"style", styleName,
		"path", path,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)
	return path, nil
}

// Delete removes the style's preview image if one exists
func (s *ImageStoreImpl) Delete(ctx context.Context, styleName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path := s.Path(styleName)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete preview image: %w", err)
	}

	s.logger.Debugw("Preview image deleted", "style", styleName, "path", path)
	return true, nil
}

// Path returns the derived preview path for a style name
func (s *ImageStoreImpl) Path(styleName string) string {
	return filepath.Join(s.dir, imageFileName(styleName))
}

// Exists reports whether the style has a preview image on disk
func (s *ImageStoreImpl) Exists(styleName string) bool {
	info, err := os.Stat(s.Path(styleName))
	return err == nil && !info.IsDir()
}

// imageFileName keeps the file inside the image directory whatever the style is called.
// Names that had to be rewritten get a hash of the original so "a/b" and "a_b" stay apart.
func imageFileName(styleName string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, styleName)
	if name == "." || name == ".." {
		name = strings.Repeat("_", len(name))
	}
	if name != styleName {
		name = fmt.Sprintf("%s-%08x", name, uint32(xxhash.Sum64String(styleName)))
	}
	return name + ".png"
}
