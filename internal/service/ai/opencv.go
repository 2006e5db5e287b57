package ai

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// OpenCVBackend runs a classification network through the OpenCV DNN module.
type OpenCVBackend struct {
	net       gocv.Net
	meta      Metadata
	modelPath string
	mu        sync.Mutex // gocv.Net is not safe for concurrent Forward calls
}

// NewOpenCVBackend loads the network and sets backend/target preferences.
func NewOpenCVBackend(modelPath string, meta Metadata) (*OpenCVBackend, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network %s", modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	return &OpenCVBackend{net: net, meta: meta, modelPath: modelPath}, nil
}

func (b *OpenCVBackend) Labels() []string {
	return b.meta.Classes
}

// Predict scales pixels to [0,1] in RGB order and returns the class scores.
func (b *OpenCVBackend) Predict(img image.Image) ([]float32, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("converted image is empty")
	}

	size := b.meta.ImageSize
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.net.SetInput(blob, "")
	output := b.net.Forward("")
	defer output.Close()

	flat := output.Reshape(1, 1)
	defer flat.Close()

	n := flat.Cols()
	if n < len(b.meta.Classes) {
		return nil, fmt.Errorf("model %s returned %d scores for %d classes", b.modelPath, n, len(b.meta.Classes))
	}

	scores := make([]float32, len(b.meta.Classes))
	for i := range scores {
		scores[i] = flat.GetFloatAt(0, i)
	}
	if b.meta.Softmax {
		softmax(scores)
	}
	return scores, nil
}

func (b *OpenCVBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.net.Close()
}
