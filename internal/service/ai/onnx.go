package ai

import (
	"fmt"
	"image"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"
)

// InitONNXEnvironment prepares the process-wide onnxruntime environment.
// It must run before NewONNXBackend; libPath may be empty to use the
// library's default lookup.
func InitONNXEnvironment(libPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// DestroyONNXEnvironment releases the onnxruntime environment.
func DestroyONNXEnvironment() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// ONNXBackend runs a classification model with onnxruntime. The session is
// bound to fixed input/output tensors, so calls are serialized.
type ONNXBackend struct {
	session      *ort.AdvancedSession
	meta         Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	mu           sync.Mutex
}

func NewONNXBackend(modelPath string, meta Metadata) (*ONNXBackend, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXBackend{
		session:      session,
		meta:         meta,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

func (b *ONNXBackend) Labels() []string {
	return b.meta.Classes
}

func (b *ONNXBackend) Predict(img image.Image) ([]float32, error) {
	input := toCHW(img, b.meta.ImageSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	data := b.inputTensor.GetData()
	if len(data) != len(input) {
		return nil, fmt.Errorf("input tensor holds %d values, image produced %d", len(data), len(input))
	}
	copy(data, input)

	if err := b.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	output := b.outputTensor.GetData()
	if len(output) < len(b.meta.Classes) {
		return nil, fmt.Errorf("model returned %d scores for %d classes", len(output), len(b.meta.Classes))
	}
	scores := make([]float32, len(b.meta.Classes))
	copy(scores, output)
	if b.meta.Softmax {
		softmax(scores)
	}
	return scores, nil
}

func (b *ONNXBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inputTensor != nil {
		b.inputTensor.Destroy()
	}
	if b.outputTensor != nil {
		b.outputTensor.Destroy()
	}
	if b.session != nil {
		return b.session.Destroy()
	}
	return nil
}

// toCHW resizes img to size×size and lays it out as planar RGB in [0,1].
func toCHW(img image.Image, size int) []float32 {
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		img = resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height
	out := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := y*width + x
			out[i] = float32(r) / 65535.0
			out[plane+i] = float32(g) / 65535.0
			out[2*plane+i] = float32(b) / 65535.0
		}
	}
	return out
}
