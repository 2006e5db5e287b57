// Package aggregate turns five images' classification results into per-image
// percentage records and a per-category batch average.
package aggregate

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"cropclassify/internal/apperr"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"
)

// Classifier is the slice of the classification adapter the aggregator needs.
type Classifier interface {
	Classify(ctx context.Context, category model.Category, ref string) (model.ClassificationResult, error)
	ImagePath(ref string) (string, error)
}

type Aggregator struct {
	classifier Classifier
	logger     *logger.Logger
}

func NewAggregator(classifier Classifier, logger *logger.Logger) *Aggregator {
	return &Aggregator{classifier: classifier, logger: logger}
}

// ValidateRefs checks the batch shape without touching any model.
func ValidateRefs(refs []string) error {
	if len(refs) != model.ImagesPerSubmission {
		return apperr.Validationf("exactly %d image paths are required, got %d", model.ImagesPerSubmission, len(refs))
	}
	for i, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			return apperr.Validationf("image path %d is empty", i+1)
		}
	}
	return nil
}

// Aggregate classifies every image with every model, sequentially, and
// returns the per-image records and the batch averages. Any failure aborts
// the whole batch; no partial result is returned.
func (a *Aggregator) Aggregate(ctx context.Context, refs []string) (model.IndividualData, model.AggregateRecord, error) {
	var individual model.IndividualData
	var averages model.AggregateRecord

	if err := ValidateRefs(refs); err != nil {
		return individual, averages, err
	}

	for i, ref := range refs {
		path, err := a.classifier.ImagePath(ref)
		if err != nil {
			return individual, averages, err
		}

		rec := model.ImageRecord{ImagePath: path}
		for _, c := range model.Categories {
			result, err := a.classifier.Classify(ctx, c, ref)
			if err != nil {
				return individual, averages, err
			}
			rec.SetScores(c, ToPercentages(result))
		}
		individual[i] = rec
		a.logger.Info("Classified %s (%s)", model.ImageKey(i), path)
	}

	for _, c := range model.Categories {
		averages.SetScores(c, Average(individual, c))
	}
	return individual, averages, nil
}

// ToPercentages converts confidences to percentages rounded to 6 decimals.
func ToPercentages(result model.ClassificationResult) model.Scores {
	scores := make(model.Scores, 0, len(result))
	for _, p := range result {
		scores = append(scores, model.Score{Label: p.Label, Value: Round(p.Confidence*100, 6)})
	}
	return scores
}

// Average computes, for one category, each label's mean percentage over the
// whole batch. A label missing from an image counts as 0, so the divisor is
// always the batch size. The result is sorted descending; ties keep the
// order in which labels were first seen (img1 first, then rank order).
func Average(individual model.IndividualData, c model.Category) model.Scores {
	var order []string
	sums := make(map[string]float64)

	for _, rec := range individual {
		for _, s := range rec.Scores(c) {
			if _, ok := sums[s.Label]; !ok {
				order = append(order, s.Label)
			}
			sums[s.Label] += s.Value
		}
	}

	out := make(model.Scores, 0, len(order))
	for _, label := range order {
		out = append(out, model.Score{Label: label, Value: sums[label] / float64(len(individual))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

// Round rounds v to the given number of decimals from its exact decimal
// expansion, with exact halves going to the even digit. Scaling by a power
// of ten first would let the multiply move values that sit just below a half
// step into the upper bucket.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return r
}
