package store

import (
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// DocumentStore provides CRUD operations for documents.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new document store.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// DocumentID derives a stable document ID from its path.
func DocumentID(path string) string {
	sum := sha1.Sum([]byte(path))
	return "doc:" + hex.EncodeToString(sum[:])[:16]
}

// Upsert inserts or updates a document record, keeping created_at on update.
func (s *DocumentStore) Upsert(doc *Document) error {
	if doc.ID == "" {
		doc.ID = DocumentID(doc.Path)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO documents (id, path, title, pages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			pages = excluded.pages,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.sqlDB.Exec(query, doc.ID, doc.Path, doc.Title, doc.Pages, now, now); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID. Returns nil when not found.
func (s *DocumentStore) GetByID(id string) (*Document, error) {
	row := s.db.sqlDB.QueryRow(
		"SELECT id, path, title, pages, created_at, updated_at FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// GetByPath retrieves a document by source path. Returns nil when not found.
func (s *DocumentStore) GetByPath(path string) (*Document, error) {
	row := s.db.sqlDB.QueryRow(
		"SELECT id, path, title, pages, created_at, updated_at FROM documents WHERE path = ?", path)
	return scanDocument(row)
}

// List returns all documents ordered by path.
func (s *DocumentStore) List() ([]*Document, error) {
	rows, err := s.db.sqlDB.Query(
		"SELECT id, path, title, pages, created_at, updated_at FROM documents ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document. Chunks and embeddings cascade.
func (s *DocumentStore) Delete(id string) error {
	if _, err := s.db.sqlDB.Exec("DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Count returns the number of documents stored.
func (s *DocumentStore) Count() (int, error) {
	var count int
	if err := s.db.sqlDB.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	var createdAt, updatedAt any

	err := row.Scan(&doc.ID, &doc.Path, &doc.Title, &doc.Pages, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	if doc.CreatedAt, err = parseTimeValue(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if doc.UpdatedAt, err = parseTimeValue(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &doc, nil
}
