package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cropclassify/internal/model"
	"cropclassify/internal/repository"

	"github.com/mattn/go-sqlite3"
)

// DocumentRepository implements repository.DocumentRepository for SQLite.
// Documents are stored whole as JSON; id, author and timestamp are copied
// into columns for lookups.
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new SQLite document repository.
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Insert stores a new document. An existing id is never overwritten.
func (r *DocumentRepository) Insert(ctx context.Context, doc *model.SubmissionDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	_, err = r.db.Conn().ExecContext(ctx, `
		INSERT INTO submissions (id, create_by, timestamp, document)
		VALUES (?, ?, ?, ?)
	`, doc.ID(), doc.CreateBy, doc.Timestamp, string(body))
	if isConstraintViolation(err) {
		return fmt.Errorf("insert %s: %w", doc.ID(), repository.ErrDuplicateID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by its id.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*model.SubmissionDocument, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var body string
	err := r.db.Conn().QueryRowContext(ctx, `SELECT document FROM submissions WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc model.SubmissionDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return &doc, nil
}

// GetAll returns every stored document, newest first.
func (r *DocumentRepository) GetAll(ctx context.Context) ([]model.SubmissionDocument, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().QueryContext(ctx, `SELECT id, document FROM submissions ORDER BY timestamp DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []model.SubmissionDocument
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc model.SubmissionDocument
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Delete removes a document by its id.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
