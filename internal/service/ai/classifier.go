package ai

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	"cropclassify/internal/apperr"
	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"
	"cropclassify/internal/security"

	"github.com/nfnt/resize"
)

// ClassifierService resolves image references against the image directory,
// prepares them and asks the per-category backend for a top-k ranking.
// Results are never cached.
type ClassifierService struct {
	backends  map[model.Category]Backend
	imageDir  string
	imageSize int
	topK      int
	logger    *logger.Logger
}

// NewClassifierService wires already loaded backends, one per category.
func NewClassifierService(cfg *config.Config, backends map[model.Category]Backend, logger *logger.Logger) (*ClassifierService, error) {
	for _, c := range model.Categories {
		if backends[c] == nil {
			return nil, fmt.Errorf("no model configured for category %s", c)
		}
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	imageSize := cfg.ImageSize
	if imageSize <= 0 {
		imageSize = 255
	}
	// Stored image paths are absolute so the viewer can serve them back.
	imageDir, err := filepath.Abs(cfg.ImageDirectory)
	if err != nil {
		return nil, fmt.Errorf("resolve image directory: %w", err)
	}
	return &ClassifierService{
		backends:  backends,
		imageDir:  imageDir,
		imageSize: imageSize,
		topK:      topK,
		logger:    logger,
	}, nil
}

// LoadClassifierService loads the three models named in cfg.
func LoadClassifierService(cfg *config.Config, logger *logger.Logger) (*ClassifierService, error) {
	if cfg.ClassifierBackend == BackendONNX {
		if err := InitONNXEnvironment(cfg.ONNXRuntimeLib); err != nil {
			return nil, err
		}
	}

	models := map[model.Category]config.ModelConfig{
		model.CategoryLettuce: cfg.LettuceModel,
		model.CategoryDisease: cfg.DiseaseModel,
		model.CategoryPest:    cfg.PestModel,
	}

	backends := make(map[model.Category]Backend, len(models))
	for _, c := range model.Categories {
		b, err := NewBackend(cfg.ClassifierBackend, models[c])
		if err != nil {
			for _, loaded := range backends {
				loaded.Close()
			}
			return nil, fmt.Errorf("load %s model: %w", c, err)
		}
		logger.Info("Loaded %s model from %s (%d classes, %s backend)", c, models[c].ModelPath, len(b.Labels()), cfg.ClassifierBackend)
		backends[c] = b
	}

	return NewClassifierService(cfg, backends, logger)
}

// ImagePath resolves a reference to a path inside the image directory.
func (s *ClassifierService) ImagePath(ref string) (string, error) {
	path, err := security.ResolveWithinDirectory(ref, s.imageDir)
	if err != nil {
		return "", apperr.Validationf("image path %q is outside the image directory", ref)
	}
	return path, nil
}

// Classify returns the top-k predictions of one model for one image.
func (s *ClassifierService) Classify(ctx context.Context, category model.Category, ref string) (model.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backend, ok := s.backends[category]
	if !ok {
		return nil, apperr.Validationf("unknown model category %q", category)
	}

	img, err := s.loadImage(ref)
	if err != nil {
		return nil, err
	}

	scores, err := backend.Predict(img)
	if err != nil {
		s.logger.Error("Inference failed for %s (%s): %v", ref, category, err)
		return nil, apperr.Model(fmt.Sprintf("%s model failed", category), err)
	}

	return TopK(backend.Labels(), scores, s.topK), nil
}

// loadImage decodes the referenced file and resizes it to the configured square.
func (s *ClassifierService) loadImage(ref string) (image.Image, error) {
	path, err := s.ImagePath(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warning("File not found: %s", path)
		return nil, apperr.NotFound(fmt.Sprintf("image %q not found", ref), err)
	}
	if err != nil {
		return nil, apperr.NotFound(fmt.Sprintf("image %q could not be opened", ref), err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperr.Validationf("image %q is not a supported JPEG or PNG file", ref)
	}

	return resize.Resize(uint(s.imageSize), uint(s.imageSize), img, resize.Bicubic), nil
}

// Close releases every backend.
func (s *ClassifierService) Close() error {
	var firstErr error
	for c, b := range s.backends {
		if err := b.Close(); err != nil {
			s.logger.Error("Failed to close %s model: %v", c, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// TopK pairs scores with labels and keeps the k highest, sorted descending.
// Equal scores keep label order. Scores beyond the label list are ignored.
func TopK(labels []string, scores []float32, k int) model.ClassificationResult {
	n := len(scores)
	if len(labels) < n {
		n = len(labels)
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	result := make(model.ClassificationResult, 0, k)
	seen := make(map[string]bool, k)
	for _, i := range idx {
		if len(result) == k {
			break
		}
		if seen[labels[i]] {
			continue
		}
		seen[labels[i]] = true
		result = append(result, model.Prediction{Label: labels[i], Confidence: float64(scores[i])})
	}
	return result
}
