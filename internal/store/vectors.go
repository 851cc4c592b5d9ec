package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/DreamCats/docchat/internal/embedding"
)

// VectorStore provides vector storage and similarity search over chunks.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new vector store.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// ScoredResult is one retrieval hit: a chunk with its similarity score.
// Distance is 1 - cosine similarity, so a query vector identical to a
// stored vector scores distance 0.
type ScoredResult struct {
	ChunkID  string
	Score    float32
	Distance float32
	Chunk    *Chunk
}

// Insert inserts or replaces the vector for a chunk.
func (v *VectorStore) Insert(chunkID string, vector []float32, model string) error {
	if len(vector) == 0 {
		return fmt.Errorf("cannot insert empty vector")
	}

	blob := vectorToBlob(vector)
	query := `
		INSERT OR REPLACE INTO embeddings (chunk_id, vector, dimension, model, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := v.db.sqlDB.Exec(query, chunkID, blob, len(vector), model,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to insert vector: %w", err)
	}
	return nil
}

// InsertBatch inserts multiple vectors in a transaction. Nil vectors
// (chunks whose text could not be embedded) are skipped.
func (v *VectorStore) InsertBatch(chunkIDs []string, vectors [][]float32, model string) error {
	if len(chunkIDs) != len(vectors) {
		return fmt.Errorf("chunkIDs and vectors length mismatch")
	}
	if len(chunkIDs) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO embeddings (chunk_id, vector, dimension, model, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, vector := range vectors {
		if len(vector) == 0 {
			continue
		}
		if _, err := stmt.Exec(chunkIDs[i], vectorToBlob(vector), len(vector), model, now); err != nil {
			return fmt.Errorf("failed to insert vector %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Get retrieves the vector for a chunk.
func (v *VectorStore) Get(chunkID string) ([]float32, error) {
	var blob []byte
	var dimension int

	err := v.db.sqlDB.QueryRow(
		"SELECT vector, dimension FROM embeddings WHERE chunk_id = ?", chunkID,
	).Scan(&blob, &dimension)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("vector not found for chunk: %s", chunkID)
		}
		return nil, fmt.Errorf("failed to get vector: %w", err)
	}

	vector, err := blobToVector(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vector: %w", err)
	}
	if len(vector) != dimension {
		return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", dimension, len(vector))
	}
	return vector, nil
}

// Search returns the topK chunks nearest to the query vector by cosine
// similarity. The scan is linear over all stored vectors; rows whose
// dimension does not match the query are skipped. Results are ordered
// by score descending, so repeated queries with the same vector return
// the same ordered results.
func (v *VectorStore) Search(queryVector []float32, topK int, chunkStore *ChunkStore) ([]ScoredResult, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}
	if topK <= 0 {
		topK = 3
	}

	rows, err := v.db.sqlDB.Query("SELECT chunk_id, vector FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer rows.Close()

	var results []ScoredResult
	for rows.Next() {
		var chunkID string
		var blob []byte
		if err := rows.Scan(&chunkID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		vector, err := blobToVector(blob)
		if err != nil {
			continue // skip malformed vectors
		}
		if len(vector) != len(queryVector) {
			continue
		}

		score := embedding.Similarity(queryVector, vector)
		results = append(results, ScoredResult{
			ChunkID:  chunkID,
			Score:    score,
			Distance: 1 - score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	// Tie-break on chunk ID so ordering stays deterministic.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > topK {
		results = results[:topK]
	}

	if chunkStore != nil {
		for i := range results {
			chunk, err := chunkStore.GetByID(results[i].ChunkID)
			if err == nil && chunk != nil {
				results[i].Chunk = chunk
			}
		}
	}
	return results, nil
}

// DeleteByDocument removes all vectors for a document's chunks.
func (v *VectorStore) DeleteByDocument(documentID string) error {
	query := `
		DELETE FROM embeddings
		WHERE chunk_id IN (SELECT id FROM chunks WHERE document_id = ?)
	`
	if _, err := v.db.sqlDB.Exec(query, documentID); err != nil {
		return fmt.Errorf("failed to delete vectors by document: %w", err)
	}
	return nil
}

// Count returns the number of vectors stored.
func (v *VectorStore) Count() (int, error) {
	var count int
	if err := v.db.sqlDB.QueryRow("SELECT COUNT(*) FROM embeddings").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return count, nil
}

// vectorToBlob serializes a float32 slice as little-endian bytes.
func vectorToBlob(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:i*4+4], math.Float32bits(v))
	}
	return blob
}

// blobToVector deserializes little-endian bytes into a float32 slice.
func blobToVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("blob size %d is not a multiple of 4", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4 : i*4+4]))
	}
	return vector, nil
}
