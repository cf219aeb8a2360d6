package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"typeshift/src/constraint"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store keeps data documents per resource (collection or link type), each
// encoded with EncodeDocument.
type Store struct {
	db  DBAdapter
	now func() time.Time
}

// NewStore wraps an open adapter.
func NewStore(db DBAdapter) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates the documents table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, documentsSchema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// InsertData stores doc under its _id, replacing any previous version.
func (s *Store) InsertData(ctx context.Context, resourceID string, doc constraint.DataDocument) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("document has no %s", constraint.IDKey)
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (resource_id, document_id, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (resource_id, document_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		resourceID, id, string(data), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", id, err)
	}
	return nil
}

// GetData loads one document.
func (s *Store) GetData(ctx context.Context, resourceID, documentID string) (constraint.DataDocument, error) {
	var data string
	err := s.db.QueryRow(ctx,
		"SELECT data FROM documents WHERE resource_id = ? AND document_id = ?",
		resourceID, documentID,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, resourceID, documentID)
		}
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return DecodeDocument([]byte(data))
}

// ListData loads every document of a resource ordered by id.
func (s *Store) ListData(ctx context.Context, resourceID string) ([]constraint.DataDocument, error) {
	rows, err := s.db.Query(ctx,
		"SELECT data FROM documents WHERE resource_id = ? ORDER BY document_id",
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents of %s: %w", resourceID, err)
	}
	defer rows.Close()

	var docs []constraint.DataDocument
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := DecodeDocument([]byte(data))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents of %s: %w", resourceID, err)
	}
	return docs, nil
}

// CountData returns the number of documents of a resource.
func (s *Store) CountData(ctx context.Context, resourceID string) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM documents WHERE resource_id = ?", resourceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents of %s: %w", resourceID, err)
	}
	return count, nil
}

// PatchData applies a patch (plain or $set envelope) to a stored document
// and returns the updated document.
func (s *Store) PatchData(ctx context.Context, resourceID, documentID string, patch constraint.DataDocument) (constraint.DataDocument, error) {
	doc, err := s.GetData(ctx, resourceID, documentID)
	if err != nil {
		return nil, err
	}
	patched := constraint.ApplyPatch(doc, patch)
	patched[constraint.IDKey] = documentID

	data, err := EncodeDocument(patched)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", documentID, err)
	}
	affected, err := s.db.Exec(ctx,
		"UPDATE documents SET data = ?, updated_at = ? WHERE resource_id = ? AND document_id = ?",
		string(data), s.now().UnixMilli(), resourceID, documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to patch document %s: %w", documentID, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, resourceID, documentID)
	}

	logrus.Debugf("Patched document %s/%s", resourceID, documentID)
	return patched, nil
}
