// Package retrieval reads stored submissions back and flattens them into
// table rows.
package retrieval

import (
	"context"

	"cropclassify/internal/apperr"
	"cropclassify/internal/dto"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"
)

// Source yields every stored document.
type Source interface {
	GetAll(ctx context.Context) ([]model.SubmissionDocument, error)
}

type Retriever struct {
	source Source
	logger *logger.Logger
}

func NewRetriever(source Source, logger *logger.Logger) *Retriever {
	return &Retriever{source: source, logger: logger}
}

// ListDocuments scans the whole store and filters in memory. A document
// whose timestamp cannot be parsed is dropped while a date bound is active.
func (r *Retriever) ListDocuments(ctx context.Context, filter dto.DocumentFilter) ([]dto.DocumentRow, error) {
	docs, err := r.source.GetAll(ctx)
	if err != nil {
		return nil, apperr.Store("failed to fetch documents", err)
	}

	rows := make([]dto.DocumentRow, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if filter.Active() {
			ts, err := doc.Time()
			if err != nil {
				r.logger.Warning("Skipping document %s: %v", doc.ID(), err)
				continue
			}
			if !filter.Matches(ts) {
				continue
			}
		}
		rows = append(rows, Flatten(doc))
	}
	return rows, nil
}

// Flatten turns one document into a row, keeping the structured mappings.
func Flatten(doc *model.SubmissionDocument) dto.DocumentRow {
	row := dto.DocumentRow{
		ID:             doc.ID(),
		AverageLettuce: doc.AvgAll.Lettuce,
		AverageDisease: doc.AvgAll.Disease,
		AveragePest:    doc.AvgAll.Pest,
		Timestamp:      doc.Timestamp,
		CreateDt:       doc.CreateDt,
		CreateBy:       doc.CreateBy,
		UpdateDt:       doc.UpdateDt,
		UpdateBy:       doc.UpdateBy,
		AffectedDt:     doc.AffectedDt,
	}
	for i, rec := range doc.IndividualData {
		row.ImagePaths[i] = rec.ImagePath
		row.Lettuce[i] = rec.Lettuce
		row.Disease[i] = rec.Disease
		row.Pest[i] = rec.Pest
	}
	return row
}
