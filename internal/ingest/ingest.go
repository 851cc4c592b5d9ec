package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/DreamCats/docchat/internal/chunker"
	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/document"
	"github.com/DreamCats/docchat/internal/embedding"
	"github.com/DreamCats/docchat/internal/store"
	"github.com/DreamCats/docchat/internal/textindex"
)

// Ingestor runs the ingestion pipeline: load documents, split them into
// chunks, index the chunk text, and store embeddings.
type Ingestor struct {
	cfg      *config.Config
	docs     *store.DocumentStore
	chunks   *store.ChunkStore
	vectors  *store.VectorStore
	text     *textindex.Index
	embed    *embedding.Service
	splitter *chunker.Splitter
	progress ProgressReporter
}

// NewIngestor creates an ingestor over an open database, text index,
// and embedding service.
func NewIngestor(cfg *config.Config, db *store.DB, text *textindex.Index, embed *embedding.Service) *Ingestor {
	overlap := chunker.DefaultOverlap
	if cfg.Chunker.Overlap != nil {
		overlap = *cfg.Chunker.Overlap
	}
	return &Ingestor{
		cfg:     cfg,
		docs:    store.NewDocumentStore(db),
		chunks:  store.NewChunkStore(db),
		vectors: store.NewVectorStore(db),
		text:    text,
		embed:   embed,
		splitter: chunker.NewSplitter(
			cfg.Chunker.ChunkSize,
			overlap,
			cfg.Chunker.Separators,
		),
	}
}

// SetProgress installs a progress reporter. nil disables reporting.
func (in *Ingestor) SetProgress(p ProgressReporter) {
	in.progress = p
}

// Summary is the outcome of one ingestion run.
type Summary struct {
	FilesIngested int
	FilesSkipped  int
	FilesFailed   int
	ChunksCreated int
	Duration      time.Duration
}

// Run ingests the file or directory at path. Already-known documents
// are skipped unless force is set, in which case their chunks and
// vectors are replaced. A file that fails to load or embed is logged
// and counted, not fatal.
func (in *Ingestor) Run(ctx context.Context, path string, force bool) (*Summary, error) {
	start := time.Now()

	files, err := CollectFiles(path, in.cfg.Ingest.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported documents under %s", path)
	}

	if in.progress != nil {
		in.progress.Start(len(files))
		defer in.progress.Finish()
	}

	summary := &Summary{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		n, err := in.ingestFile(ctx, file, force)
		switch {
		case err != nil:
			log.Printf("Warning: failed to ingest %s: %v", file, err)
			summary.FilesFailed++
		case n < 0:
			summary.FilesSkipped++
		default:
			summary.FilesIngested++
			summary.ChunksCreated += n
		}

		if in.progress != nil {
			in.progress.Increment()
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// ingestFile ingests a single file and returns the number of chunks
// created, or -1 when the document was skipped.
func (in *Ingestor) ingestFile(ctx context.Context, path string, force bool) (int, error) {
	existing, err := in.docs.GetByPath(path)
	if err != nil {
		return 0, err
	}
	if existing != nil && !force {
		return -1, nil
	}

	doc, err := document.Load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	record := &store.Document{
		Path:  path,
		Title: doc.Title,
		Pages: len(doc.Pages),
	}
	if existing != nil {
		record.ID = existing.ID
		if err := in.removeDerived(existing.ID); err != nil {
			return 0, err
		}
	}
	if err := in.docs.Upsert(record); err != nil {
		return 0, err
	}

	chunks := in.splitDocument(record.ID, doc)
	if len(chunks) == 0 {
		log.Printf("Warning: no text extracted from %s", path)
		return 0, nil
	}

	if err := in.chunks.CreateBatch(chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	if in.text != nil {
		for _, c := range chunks {
			err := in.text.IndexChunk(c.ID, textindex.ChunkDoc{
				Content:  c.Content,
				Title:    record.Title,
				Document: record.ID,
				Page:     c.Page,
			})
			if err != nil {
				return 0, fmt.Errorf("failed to index chunk text: %w", err)
			}
		}
	}

	if err := in.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	return len(chunks), nil
}

// splitDocument chunks each page separately so page numbers survive,
// with one document-wide chunk sequence. Single-page documents get
// page 0 so sources are shown without a page label.
func (in *Ingestor) splitDocument(docID string, doc *document.Document) []*store.Chunk {
	var out []*store.Chunk
	seq := 0
	for _, page := range doc.Pages {
		pageNum := page.Number
		if len(doc.Pages) == 1 {
			pageNum = 0
		}
		for _, c := range in.splitter.Split(page.Text) {
			out = append(out, &store.Chunk{
				ID:         fmt.Sprintf("%s#%d", docID, seq),
				DocumentID: docID,
				Page:       pageNum,
				Seq:        seq,
				Offset:     c.Offset,
				Content:    c.Text,
				Hash:       c.Hash,
			})
			seq++
		}
	}
	return out
}

func (in *Ingestor) embedChunks(ctx context.Context, chunks []*store.Chunk) error {
	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
		texts[i] = c.Content
	}

	vectors, err := in.embed.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if err := in.vectors.InsertBatch(ids, vectors, in.embed.Model()); err != nil {
		return fmt.Errorf("failed to store vectors: %w", err)
	}
	return nil
}

// removeDerived drops the chunks, vectors, and text-index entries of a
// document before re-ingestion.
func (in *Ingestor) removeDerived(docID string) error {
	if in.text != nil {
		old, err := in.chunks.ListByDocument(docID)
		if err != nil {
			return err
		}
		for _, c := range old {
			if err := in.text.DeleteChunk(c.ID); err != nil {
				return fmt.Errorf("failed to remove chunk from text index: %w", err)
			}
		}
	}
	if err := in.vectors.DeleteByDocument(docID); err != nil {
		return err
	}
	return in.chunks.DeleteByDocument(docID)
}
