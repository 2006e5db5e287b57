package ai

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cropclassify/internal/apperr"
	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	labels []string
	scores []float32
	err    error
	seen   image.Rectangle
	closed bool
}

func (b *stubBackend) Predict(img image.Image) ([]float32, error) {
	b.seen = img.Bounds()
	return b.scores, b.err
}

func (b *stubBackend) Labels() []string { return b.labels }

func (b *stubBackend) Close() error {
	b.closed = true
	return nil
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 200, B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestService(t *testing.T) (*ClassifierService, map[model.Category]*stubBackend, string) {
	t.Helper()
	dir := t.TempDir()
	stubs := map[model.Category]*stubBackend{
		model.CategoryLettuce: {labels: []string{"iceberg", "romaine", "butterhead", "oakleaf"}, scores: []float32{0.1, 0.6, 0.2, 0.1}},
		model.CategoryDisease: {labels: []string{"healthy", "rot"}, scores: []float32{0.9, 0.1}},
		model.CategoryPest:    {labels: []string{"none"}, scores: []float32{1}},
	}
	backends := make(map[model.Category]Backend, len(stubs))
	for c, b := range stubs {
		backends[c] = b
	}

	cfg := &config.Config{ImageDirectory: dir, ImageSize: 255, TopK: 3}
	svc, err := NewClassifierService(cfg, backends, logger.Discard())
	require.NoError(t, err)
	return svc, stubs, dir
}

// ========================================
// ClassifierService
// ========================================

func TestClassify_TopThreeResized(t *testing.T) {
	svc, stubs, dir := newTestService(t)
	writePNG(t, filepath.Join(dir, "leaf.png"))

	result, err := svc.Classify(context.Background(), model.CategoryLettuce, "leaf.png")
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, "romaine", result[0].Label)
	assert.Equal(t, "butterhead", result[1].Label)
	assert.Equal(t, "iceberg", result[2].Label)
	assert.Equal(t, image.Rect(0, 0, 255, 255), stubs[model.CategoryLettuce].seen)
}

func TestClassify_MissingImage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Classify(context.Background(), model.CategoryDisease, "nope.jpg")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestClassify_Traversal(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Classify(context.Background(), model.CategoryDisease, "../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestClassify_UndecodableImage(t *testing.T) {
	svc, _, dir := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.jpg"), []byte("not an image"), 0644))

	_, err := svc.Classify(context.Background(), model.CategoryPest, "notes.jpg")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestClassify_BackendFailure(t *testing.T) {
	svc, stubs, dir := newTestService(t)
	writePNG(t, filepath.Join(dir, "leaf.png"))
	stubs[model.CategoryPest].err = errors.New("session run failed")

	_, err := svc.Classify(context.Background(), model.CategoryPest, "leaf.png")
	require.Error(t, err)
	assert.Equal(t, apperr.KindModel, apperr.KindOf(err))
	assert.NotContains(t, apperr.Message(err), "session run failed")
}

func TestClassify_CancelledContext(t *testing.T) {
	svc, _, dir := newTestService(t)
	writePNG(t, filepath.Join(dir, "leaf.png"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Classify(ctx, model.CategoryLettuce, "leaf.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImagePath_Absolute(t *testing.T) {
	svc, _, _ := newTestService(t)

	path, err := svc.ImagePath("a.jpg")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "a.jpg", filepath.Base(path))

	again, err := svc.ImagePath(path)
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestNewClassifierService_MissingBackend(t *testing.T) {
	_, err := NewClassifierService(&config.Config{}, map[model.Category]Backend{
		model.CategoryLettuce: &stubBackend{},
	}, logger.Discard())
	assert.Error(t, err)
}

func TestClose_ClosesEveryBackend(t *testing.T) {
	svc, stubs, _ := newTestService(t)
	require.NoError(t, svc.Close())
	for c, b := range stubs {
		assert.True(t, b.closed, "%s backend not closed", c)
	}
}

// ========================================
// Helpers
// ========================================

func TestTopK(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "a"}
	scores := []float32{0.2, 0.4, 0.2, 0.1, 0.9}

	got := TopK(labels, scores, 3)
	require.Len(t, got, 3)
	// Duplicate "a" keeps its best score; ties keep label order.
	assert.Equal(t, "a", got[0].Label)
	assert.Equal(t, "b", got[1].Label)
	assert.Equal(t, "c", got[2].Label)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-6)
}

func TestTopK_FewerLabelsThanK(t *testing.T) {
	got := TopK([]string{"only"}, []float32{0.7, 0.3}, 3)
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Label)
}

func TestSoftmax(t *testing.T) {
	values := []float32{1, 2, 3}
	softmax(values)

	var sum float32
	for _, v := range values {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
	assert.Greater(t, values[2], values[1])
	assert.Greater(t, values[1], values[0])

	softmax(nil)
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lettuce.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"classes":["romaine","iceberg"],"image_size":255}`), 0644))

	meta, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 255, 255}, meta.InputShape)
	assert.Equal(t, []int64{1, 2}, meta.OutputShape)
	assert.Equal(t, "images", meta.InputName)
	assert.Equal(t, "output0", meta.OutputName)
}

func TestLoadMetadata_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"empty.json":     `{"classes":[],"image_size":255}`,
		"duplicate.json": `{"classes":["a","a"],"image_size":255}`,
		"nosize.json":    `{"classes":["a"]}`,
		"broken.json":    `{`,
	}
	for name, body := range tests {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := LoadMetadata(path)
		assert.Error(t, err, name)
	}

	_, err := LoadMetadata(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNewBackend_UnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"classes":["none"],"image_size":255}`), 0644))

	_, err := NewBackend("tensorflow", config.ModelConfig{MetadataPath: path})
	assert.Error(t, err)
}
