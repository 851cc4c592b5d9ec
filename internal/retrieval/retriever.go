package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/DreamCats/docchat/internal/embedding"
	"github.com/DreamCats/docchat/internal/store"
	"github.com/DreamCats/docchat/internal/textindex"
)

// ErrNoResults is returned when retrieval finds no matching chunks,
// for example when the library is empty.
var ErrNoResults = errors.New("no matching chunks in the library")

// Retriever combines vector similarity and keyword search over the
// chunk library.
type Retriever struct {
	vectors *store.VectorStore
	chunks  *store.ChunkStore
	docs    *store.DocumentStore
	text    *textindex.Index
	embed   *embedding.Service
}

// NewRetriever creates a retriever. text may be nil, in which case
// only vector search is available.
func NewRetriever(
	vectors *store.VectorStore,
	chunks *store.ChunkStore,
	docs *store.DocumentStore,
	text *textindex.Index,
	embed *embedding.Service,
) *Retriever {
	return &Retriever{
		vectors: vectors,
		chunks:  chunks,
		docs:    docs,
		text:    text,
		embed:   embed,
	}
}

// Options configures retrieval behavior.
type Options struct {
	TopK          int     // number of results to return
	VectorWeight  float32 // weight for vector similarity (0-1)
	KeywordWeight float32 // weight for keyword search (0-1)
	MinScore      float32 // drop results scoring below this
}

// DefaultOptions returns default retrieval options.
func DefaultOptions() Options {
	return Options{
		TopK:          3,
		VectorWeight:  0.7,
		KeywordWeight: 0.3,
	}
}

// Result is one retrieved chunk with its scores.
type Result struct {
	Chunk         *store.Chunk
	Document      *store.Document
	VectorScore   float32
	KeywordScore  float32
	CombinedScore float32
}

// Retrieve embeds the query, runs vector and keyword search, and merges
// the scores per chunk. Results are sorted by combined score descending
// and truncated to TopK. Deterministic for a fixed library and query
// embedding.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts Options) ([]Result, error) {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}

	// Normalize weights; keyword weight is meaningless without an index.
	if r.text == nil {
		opts.KeywordWeight = 0
	}
	total := opts.VectorWeight + opts.KeywordWeight
	if total == 0 {
		opts.VectorWeight = 1.0
		total = 1.0
	}
	opts.VectorWeight /= total
	opts.KeywordWeight /= total

	type merged struct {
		vectorScore  float32
		keywordScore float32
	}
	scores := make(map[string]*merged)

	if opts.VectorWeight > 0 {
		queryVector, err := r.embed.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		vResults, err := r.vectors.Search(queryVector, opts.TopK*2, nil)
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}
		for _, res := range vResults {
			scores[res.ChunkID] = &merged{vectorScore: res.Score}
		}
	}

	if opts.KeywordWeight > 0 {
		hits, err := r.text.Search(query, opts.TopK*2)
		if err != nil {
			return nil, fmt.Errorf("keyword search failed: %w", err)
		}
		// Rank-based scoring keeps bleve's unbounded scores comparable
		// with cosine similarity.
		for i, hit := range hits {
			score := float32(1.0 - float64(i)/float64(len(hits)))
			if existing, ok := scores[hit.ChunkID]; ok {
				existing.keywordScore = score
			} else {
				scores[hit.ChunkID] = &merged{keywordScore: score}
			}
		}
	}

	if len(scores) == 0 {
		return nil, ErrNoResults
	}

	results := make([]Result, 0, len(scores))
	for chunkID, m := range scores {
		combined := opts.VectorWeight*m.vectorScore + opts.KeywordWeight*m.keywordScore
		if combined < opts.MinScore {
			continue
		}
		chunk, err := r.chunks.GetByID(chunkID)
		if err != nil || chunk == nil {
			continue
		}
		results = append(results, Result{
			Chunk:         chunk,
			VectorScore:   m.vectorScore,
			KeywordScore:  m.keywordScore,
			CombinedScore: combined,
		})
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}

	// Attach source documents for display.
	if r.docs != nil {
		cache := make(map[string]*store.Document)
		for i := range results {
			docID := results[i].Chunk.DocumentID
			if doc, ok := cache[docID]; ok {
				results[i].Document = doc
				continue
			}
			if doc, err := r.docs.GetByID(docID); err == nil && doc != nil {
				results[i].Document = doc
				cache[docID] = doc
			}
		}
	}

	return results, nil
}
