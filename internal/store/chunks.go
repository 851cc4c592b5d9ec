package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ChunkStore provides CRUD operations for chunks.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new chunk store.
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// CreateBatch inserts chunks in a single transaction.
func (s *ChunkStore) CreateBatch(chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO chunks (id, document_id, page, seq, start_offset, content, hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk %d has no ID", i)
		}
		if _, err := stmt.Exec(chunk.ID, chunk.DocumentID, chunk.Page, chunk.Seq,
			chunk.Offset, chunk.Content, chunk.Hash, now); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetByID retrieves a chunk by ID. Returns nil when not found.
func (s *ChunkStore) GetByID(id string) (*Chunk, error) {
	row := s.db.sqlDB.QueryRow(`
		SELECT id, document_id, page, seq, start_offset, content, hash, created_at
		FROM chunks WHERE id = ?
	`, id)
	return scanChunk(row)
}

// ListByDocument returns a document's chunks in sequence order.
func (s *ChunkStore) ListByDocument(documentID string) ([]*Chunk, error) {
	rows, err := s.db.sqlDB.Query(`
		SELECT id, document_id, page, seq, start_offset, content, hash, created_at
		FROM chunks WHERE document_id = ? ORDER BY seq
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// DeleteByDocument removes all chunks for a document.
func (s *ChunkStore) DeleteByDocument(documentID string) error {
	if _, err := s.db.sqlDB.Exec("DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// Count returns the number of chunks stored.
func (s *ChunkStore) Count() (int, error) {
	var count int
	if err := s.db.sqlDB.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

func scanChunk(row rowScanner) (*Chunk, error) {
	var chunk Chunk
	var createdAt any

	err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Page, &chunk.Seq,
		&chunk.Offset, &chunk.Content, &chunk.Hash, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan chunk: %w", err)
	}

	if chunk.CreatedAt, err = parseTimeValue(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &chunk, nil
}
