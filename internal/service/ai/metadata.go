package ai

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata describes a classification model export: its tensor shapes, class
// names in output order and the square input edge it was trained on.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	// Softmax is set when the model emits logits rather than probabilities.
	Softmax bool `json:"softmax"`
}

// LoadMetadata reads and validates a metadata file.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	if err := meta.validate(); err != nil {
		return Metadata{}, fmt.Errorf("invalid metadata %s: %w", path, err)
	}
	return meta, nil
}

func (m *Metadata) validate() error {
	if len(m.Classes) == 0 {
		return fmt.Errorf("no classes")
	}
	seen := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if seen[c] {
			return fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = true
	}
	if m.ImageSize <= 0 {
		return fmt.Errorf("image_size must be positive")
	}
	if m.InputName == "" {
		m.InputName = "images"
	}
	if m.OutputName == "" {
		m.OutputName = "output0"
	}
	if len(m.InputShape) == 0 {
		m.InputShape = []int64{1, 3, int64(m.ImageSize), int64(m.ImageSize)}
	}
	if len(m.OutputShape) == 0 {
		m.OutputShape = []int64{1, int64(len(m.Classes))}
	}
	return nil
}
