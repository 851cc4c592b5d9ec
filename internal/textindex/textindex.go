package textindex

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

// ChunkDoc is the bleve document for one chunk.
type ChunkDoc struct {
	Content  string `json:"content"`
	Title    string `json:"title"`
	Document string `json:"document"`
	Page     int    `json:"page"`
}

// Hit is one keyword search result.
type Hit struct {
	ChunkID string
	Score   float64
}

// Index wraps a bleve index over chunk text.
type Index struct {
	index bleve.Index
}

// Create builds a fresh index at dir, removing any previous one.
func Create(dir string) (*Index, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("reset text index dir: %w", err)
	}
	// bleve.New refuses a path that already exists and creates the
	// directory itself.
	index, err := bleve.New(dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &Index{index: index}, nil
}

// Open opens an existing index at dir.
func Open(dir string) (*Index, error) {
	index, err := bleve.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open text index: %w", err)
	}
	return &Index{index: index}, nil
}

// OpenOrCreate opens the index at dir, creating it when absent.
func OpenOrCreate(dir string) (*Index, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return Create(dir)
	}
	return Open(dir)
}

// IndexChunk adds or replaces one chunk in the index.
func (ix *Index) IndexChunk(chunkID string, doc ChunkDoc) error {
	return ix.index.Index(chunkID, doc)
}

// DeleteChunk removes one chunk from the index.
func (ix *Index) DeleteChunk(chunkID string) error {
	return ix.index.Delete(chunkID)
}

// Search runs a keyword query over chunk content and document title,
// with title matches boosted. Results come back in bleve score order.
func (ix *Index) Search(query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 10
	}

	contentQuery := bleve.NewMatchQuery(query)
	contentQuery.SetField("content")
	contentQuery.SetBoost(1.0)
	titleQuery := bleve.NewMatchQuery(query)
	titleQuery.SetField("title")
	titleQuery.SetBoost(2.0)

	disjunction := bleve.NewDisjunctionQuery(
		[]blevequery.Query{contentQuery, titleQuery}...)

	req := bleve.NewSearchRequestOptions(disjunction, topK, 0, false)
	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hits = append(hits, Hit{ChunkID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}

// Close closes the underlying index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Store = true
	titleField.Index = true
	docMapping.AddFieldMappingsAt("title", titleField)

	documentField := bleve.NewTextFieldMapping()
	documentField.Store = true
	documentField.Index = true
	documentField.Analyzer = "keyword"
	docMapping.AddFieldMappingsAt("document", documentField)

	pageField := bleve.NewNumericFieldMapping()
	pageField.Store = true
	pageField.Index = false
	docMapping.AddFieldMappingsAt("page", pageField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
