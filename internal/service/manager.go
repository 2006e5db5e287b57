package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"cropclassify/internal/apperr"
	"cropclassify/internal/dto"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"
	"cropclassify/internal/repository"
	"cropclassify/internal/service/aggregate"
	"cropclassify/internal/service/document"
	"cropclassify/internal/service/retrieval"
)

// Broadcaster receives a notification for every stored submission.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Manager runs submissions end to end: validate, classify and aggregate,
// assemble, persist. A document is written only after every inference call
// has succeeded.
type Manager struct {
	aggregator  *aggregate.Aggregator
	assembler   *document.Assembler
	retriever   *retrieval.Retriever
	documents   repository.DocumentRepository
	broadcaster Broadcaster
	logger      *logger.Logger
}

func NewManager(aggregator *aggregate.Aggregator, assembler *document.Assembler,
	documents repository.DocumentRepository, broadcaster Broadcaster, logger *logger.Logger) *Manager {
	return &Manager{
		aggregator:  aggregator,
		assembler:   assembler,
		retriever:   retrieval.NewRetriever(documents, logger),
		documents:   documents,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Submit processes one submission and returns the stored document.
func (m *Manager) Submit(ctx context.Context, req dto.SubmissionRequest) (*model.SubmissionDocument, error) {
	author := strings.TrimSpace(req.CreateBy)
	if author == "" {
		return nil, apperr.Validationf("create_by field is required")
	}
	if err := aggregate.ValidateRefs(req.ImagePaths); err != nil {
		return nil, err
	}

	individual, averages, err := m.aggregator.Aggregate(ctx, req.ImagePaths)
	if err != nil {
		return nil, err
	}

	doc := m.assembler.Assemble(individual, averages, author, document.Provenance{
		CreateDt:   req.CreateDt,
		UpdateDt:   req.UpdateDt,
		UpdateBy:   req.UpdateBy,
		AffectedDt: req.AffectedDt,
	})

	if err := m.documents.Insert(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, apperr.Conflict("a submission with this id already exists", err)
		}
		return nil, apperr.Store("failed to store document", err)
	}

	m.logger.Info("Stored submission %s", doc.ID())
	m.notify(doc)
	return doc, nil
}

// List returns the flattened rows of stored documents matching filter.
func (m *Manager) List(ctx context.Context, filter dto.DocumentFilter) ([]dto.DocumentRow, error) {
	return m.retriever.ListDocuments(ctx, filter)
}

// Get returns one stored document.
func (m *Manager) Get(ctx context.Context, id string) (*model.SubmissionDocument, error) {
	doc, err := m.documents.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("document not found", err)
	}
	if err != nil {
		return nil, apperr.Store("failed to fetch document", err)
	}
	return doc, nil
}

// Delete removes one stored document.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.documents.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("document not found", err)
	}
	if err != nil {
		return apperr.Store("failed to delete document", err)
	}
	m.logger.Info("Deleted submission %s", id)
	return nil
}

// Count returns the number of stored documents.
func (m *Manager) Count(ctx context.Context) (int, error) {
	n, err := m.documents.Count(ctx)
	if err != nil {
		return 0, apperr.Store("failed to count documents", err)
	}
	return n, nil
}

func (m *Manager) notify(doc *model.SubmissionDocument) {
	if m.broadcaster == nil {
		return
	}
	msg, err := json.Marshal(dto.LiveEvent{
		DocumentID: doc.ID(),
		CreateBy:   doc.CreateBy,
		Timestamp:  doc.Timestamp,
	})
	if err != nil {
		m.logger.Error("Failed to encode live event: %v", err)
		return
	}
	m.broadcaster.Broadcast(msg)
}
