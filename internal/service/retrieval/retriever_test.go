package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"cropclassify/internal/apperr"
	"cropclassify/internal/dto"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	docs []model.SubmissionDocument
	err  error
}

func (f fakeSource) GetAll(ctx context.Context) ([]model.SubmissionDocument, error) {
	return f.docs, f.err
}

func docAt(author, ts string) model.SubmissionDocument {
	doc := model.SubmissionDocument{
		Metadata:  model.Metadata{Tab: model.DocumentTab, ID: model.DocumentID(author, ts)},
		CreateBy:  author,
		Timestamp: ts,
	}
	for i := range doc.IndividualData {
		doc.IndividualData[i] = model.ImageRecord{
			ImagePath: "images/" + model.ImageKey(i) + ".jpg",
			Lettuce:   model.Scores{{Label: "romaine", Value: float64(10 * (i + 1))}},
			Disease:   model.Scores{{Label: "healthy", Value: 100}},
			Pest:      model.Scores{{Label: "none", Value: 75}, {Label: "aphid", Value: 25}},
		}
	}
	doc.AvgAll = model.AggregateRecord{
		Lettuce: model.Scores{{Label: "romaine", Value: 30}},
		Disease: model.Scores{{Label: "healthy", Value: 100}},
		Pest:    model.Scores{{Label: "none", Value: 75}, {Label: "aphid", Value: 25}},
	}
	return doc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestListDocuments_NoFilter(t *testing.T) {
	src := fakeSource{docs: []model.SubmissionDocument{
		docAt("a", "2026-01-01T10:00:00.000000"),
		docAt("b", "garbage"),
	}}

	rows, err := NewRetriever(src, logger.Discard()).ListDocuments(context.Background(), dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListDocuments_InclusiveRange(t *testing.T) {
	src := fakeSource{docs: []model.SubmissionDocument{
		docAt("before", "2026-01-09T23:59:59.999999"),
		docAt("start", "2026-01-10T00:00:00.000000"),
		docAt("middle", "2026-01-12T12:00:00.000000"),
		docAt("end", "2026-01-15T23:59:59.999999"),
		docAt("after", "2026-01-16T00:00:00.000000"),
		docAt("broken", "not a date"),
	}}
	filter := dto.DocumentFilter{StartDate: day(2026, 1, 10), EndDate: day(2026, 1, 15)}

	rows, err := NewRetriever(src, logger.Discard()).ListDocuments(context.Background(), filter)
	require.NoError(t, err)

	var authors []string
	for _, r := range rows {
		authors = append(authors, r.CreateBy)
	}
	assert.Equal(t, []string{"start", "middle", "end"}, authors)
}

func TestListDocuments_SingleBound(t *testing.T) {
	src := fakeSource{docs: []model.SubmissionDocument{
		docAt("old", "2025-06-01T08:00:00.000000"),
		docAt("new", "2026-06-01T08:00:00.000000"),
	}}
	r := NewRetriever(src, logger.Discard())

	rows, err := r.ListDocuments(context.Background(), dto.DocumentFilter{StartDate: day(2026, 1, 1)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].CreateBy)

	rows, err = r.ListDocuments(context.Background(), dto.DocumentFilter{EndDate: day(2026, 1, 1)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "old", rows[0].CreateBy)
}

func TestListDocuments_EmptyResult(t *testing.T) {
	src := fakeSource{docs: []model.SubmissionDocument{docAt("a", "2026-01-01T10:00:00.000000")}}

	rows, err := NewRetriever(src, logger.Discard()).ListDocuments(context.Background(),
		dto.DocumentFilter{StartDate: day(2030, 1, 1), EndDate: day(2030, 1, 2)})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListDocuments_StoreError(t *testing.T) {
	src := fakeSource{err: errors.New("connection refused")}

	_, err := NewRetriever(src, logger.Discard()).ListDocuments(context.Background(), dto.DocumentFilter{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
	assert.NotContains(t, apperr.Message(err), "connection refused")
}

func TestFlatten(t *testing.T) {
	doc := docAt("alice", "2026-02-03T04:05:06.000007")
	doc.UpdateBy = "bob"

	row := Flatten(&doc)

	assert.Equal(t, doc.ID(), row.ID)
	assert.Equal(t, "bob", row.UpdateBy)
	assert.Equal(t, doc.Timestamp, row.Timestamp)
	for i, rec := range doc.IndividualData {
		assert.Equal(t, rec.ImagePath, row.ImagePaths[i])
		for _, c := range model.Categories {
			if diff := cmp.Diff(rec.Scores(c), row.Category(c)[i]); diff != "" {
				t.Errorf("%s img%d mismatch (-want +got):\n%s", c, i+1, diff)
			}
		}
	}
	for _, c := range model.Categories {
		assert.Equal(t, doc.AvgAll.Scores(c), row.Average(c))
	}
}
