package repository

import (
	"context"
	"errors"

	"cropclassify/internal/model"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateID is returned when a document with the same id exists.
	ErrDuplicateID = errors.New("document id already exists")
)

// DocumentRepository persists submission documents keyed by their id.
type DocumentRepository interface {
	// Create operations
	Insert(ctx context.Context, doc *model.SubmissionDocument) error

	// Read operations
	GetByID(ctx context.Context, id string) (*model.SubmissionDocument, error)
	GetAll(ctx context.Context) ([]model.SubmissionDocument, error)
	Count(ctx context.Context) (int, error)

	// Delete operations
	Delete(ctx context.Context, id string) error
}
