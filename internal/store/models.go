package store

import "time"

// Document is one ingested source file.
type Document struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chunk is one bounded piece of a document's text, the unit of
// embedding and retrieval.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Page       int       `json:"page"`
	Seq        int       `json:"seq"`
	Offset     int       `json:"offset"`
	Content    string    `json:"content"`
	Hash       string    `json:"hash"`
	CreatedAt  time.Time `json:"created_at"`
}
