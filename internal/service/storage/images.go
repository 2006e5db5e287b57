package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/security"
	"cropclassify/internal/timeutil"

	"github.com/google/uuid"
)

// UploadedImage is one file received from a client.
type UploadedImage struct {
	Filename string
	Data     []byte
}

// ImageStore writes uploaded images into the image directory so they can be
// referenced by a submission.
type ImageStore struct {
	imagesDir string
	clock     timeutil.Clock
	mu        sync.Mutex
	logger    *logger.Logger
}

// NewImageStore creates an ImageStore rooted at config.ImageDirectory.
func NewImageStore(config *config.Config, clock timeutil.Clock, logger *logger.Logger) *ImageStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &ImageStore{
		imagesDir: config.ImageDirectory,
		clock:     clock,
		logger:    logger,
	}
}

// SaveAll writes every image under a timestamp-prefixed, sanitized name and
// returns the names relative to the image directory. Each name carries a
// random id and is created exclusively, so an existing file is never
// replaced. If any write fails the files written so far are removed.
func (s *ImageStore) SaveAll(images []UploadedImage) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating directory: %w", err)
	}

	prefix := s.clock.Now().Format("2006-01-02_15-04_05.000")
	names := make([]string, 0, len(images))
	for i, img := range images {
		name := fmt.Sprintf("%s_%d_%s_%s", prefix, i+1, uuid.NewString(), security.SanitizeFilename(img.Filename))
		fullpath := filepath.Join(s.imagesDir, name)

		if err := writeNew(fullpath, img.Data); err != nil {
			s.logger.Error("Error saving image %s: %v", name, err)
			s.removeLocked(names)
			return nil, fmt.Errorf("error saving image %s: %w", name, err)
		}
		names = append(names, name)
	}

	s.logger.Info("Stored %d uploaded images in %s", len(names), s.imagesDir)
	return names, nil
}

// writeNew creates path and fails if it already exists.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Remove deletes previously saved images, ignoring ones already gone.
func (s *ImageStore) Remove(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(names)
}

func (s *ImageStore) removeLocked(names []string) {
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.imagesDir, name)); err != nil && !os.IsNotExist(err) {
			s.logger.Error("Error removing image %s: %v", name, err)
		}
	}
}
