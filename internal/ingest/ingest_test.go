package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/embedding"
	"github.com/DreamCats/docchat/internal/store"
	"github.com/DreamCats/docchat/internal/textindex"
)

type countingClient struct {
	calls int
}

func (c *countingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 0}, nil
}

func (c *countingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = c.Embed(ctx, t)
	}
	return out, nil
}

func (c *countingClient) Dimensions() int { return 3 }
func (c *countingClient) Model() string   { return "counting" }

func intPtr(v int) *int { return &v }

func testConfig() *config.Config {
	return &config.Config{
		Embedding: config.EmbeddingConfig{BatchSize: 16},
		Chunker:   config.ChunkerConfig{ChunkSize: 64, Overlap: intPtr(8)},
		Ingest:    config.IngestConfig{Exclude: []string{"**/drafts/**"}},
	}
}

func newTestIngestor(t *testing.T) (*Ingestor, *store.DB, *countingClient) {
	t.Helper()
	dir := t.TempDir()

	db, err := store.Open(filepath.Join(dir, "docchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	text, err := textindex.Create(filepath.Join(dir, "chunks.bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { text.Close() })

	cfg := testConfig()
	client := &countingClient{}
	svc := embedding.NewServiceWithClient(&cfg.Embedding, client)
	return NewIngestor(cfg, db, text, svc), db, client
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "alpha")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "beta")
	writeFile(t, filepath.Join(dir, "drafts", "c.md"), "gamma")
	writeFile(t, filepath.Join(dir, ".hidden", "d.md"), "delta")
	writeFile(t, filepath.Join(dir, "e.csv"), "ignored")

	files, err := CollectFiles(dir, []string{"drafts/**"})
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], "a.md"))
	assert.True(t, strings.HasSuffix(files[1], filepath.Join("sub", "b.txt")))
}

func TestCollectFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.txt")
	writeFile(t, path, "content")

	files, err := CollectFiles(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	bad := filepath.Join(dir, "only.csv")
	writeFile(t, bad, "content")
	_, err = CollectFiles(bad, nil)
	assert.Error(t, err)
}

func TestRunIngestsDocuments(t *testing.T) {
	ing, db, client := newTestIngestor(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"),
		"The first paragraph talks about turtles.\n\nThe second paragraph talks about rockets and orbital mechanics in some detail.")

	summary, err := ing.Run(context.Background(), dir, false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesIngested)
	assert.Zero(t, summary.FilesFailed)
	assert.Positive(t, summary.ChunksCreated)
	assert.Positive(t, client.calls)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.DocumentCount)
	assert.EqualValues(t, summary.ChunksCreated, stats.ChunkCount)
	assert.EqualValues(t, summary.ChunksCreated, stats.EmbeddingCount)
}

func TestRunSkipsKnownDocuments(t *testing.T) {
	ing, _, _ := newTestIngestor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "some stable content")

	first, err := ing.Run(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.FilesIngested)

	second, err := ing.Run(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesIngested)
	assert.Equal(t, 1, second.FilesSkipped)
}

func TestRunForceReplacesChunks(t *testing.T) {
	ing, db, _ := newTestIngestor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	writeFile(t, path, strings.Repeat("old content. ", 20))

	_, err := ing.Run(context.Background(), path, false)
	require.NoError(t, err)

	writeFile(t, path, "new content, much shorter")
	summary, err := ing.Run(context.Background(), path, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesIngested)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.DocumentCount)
	assert.EqualValues(t, summary.ChunksCreated, stats.ChunkCount)
	assert.EqualValues(t, summary.ChunksCreated, stats.EmbeddingCount)

	chunks, err := store.NewChunkStore(db).ListByDocument(store.DocumentID(path))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Content, "new content")
}

func TestRunFailuresAreNotFatal(t *testing.T) {
	ing, _, _ := newTestIngestor(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.txt"), "readable content")
	// Empty PDFs fail to parse but must not abort the run.
	writeFile(t, filepath.Join(dir, "bad.pdf"), "not a real pdf")

	summary, err := ing.Run(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesIngested)
	assert.Equal(t, 1, summary.FilesFailed)
}
