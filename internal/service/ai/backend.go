package ai

import (
	"fmt"
	"image"
	"math"

	"cropclassify/internal/config"
)

// Backend runs one classification model. Predict returns one probability
// per entry of Labels, in the same order.
type Backend interface {
	Predict(img image.Image) ([]float32, error)
	Labels() []string
	Close() error
}

const (
	BackendOpenCV = "opencv"
	BackendONNX   = "onnx"
)

// NewBackend loads the model described by mc with the named runtime.
func NewBackend(kind string, mc config.ModelConfig) (Backend, error) {
	meta, err := LoadMetadata(mc.MetadataPath)
	if err != nil {
		return nil, err
	}

	switch kind {
	case BackendOpenCV:
		return NewOpenCVBackend(mc.ModelPath, meta)
	case BackendONNX:
		return NewONNXBackend(mc.ModelPath, meta)
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", kind)
	}
}

// softmax normalizes logits in place.
func softmax(values []float32) {
	if len(values) == 0 {
		return
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	var sum float64
	for i, v := range values {
		e := math.Exp(float64(v - maxVal))
		values[i] = float32(e)
		sum += e
	}
	for i := range values {
		values[i] = float32(float64(values[i]) / sum)
	}
}
