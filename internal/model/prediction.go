package model

// Prediction is one (label, confidence) pair; confidence is in [0,1].
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult holds the top-k predictions of one model for one
// image, sorted by descending confidence with unique labels.
type ClassificationResult []Prediction
