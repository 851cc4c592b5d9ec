package main

import (
	"fmt"

	"github.com/DreamCats/docchat/cmd/docchat/internal"
	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/embedding"
	"github.com/DreamCats/docchat/internal/retrieval"
	"github.com/DreamCats/docchat/internal/store"
	"github.com/DreamCats/docchat/internal/textindex"
)

// library bundles the per-library resources a subcommand needs.
type library struct {
	cfg     *config.Config
	db      *store.DB
	text    *textindex.Index
	embed   *embedding.Service
	docs    *store.DocumentStore
	chunks  *store.ChunkStore
	vectors *store.VectorStore
}

// openLibrary opens the database and text index for cfg.Library.
// With forIngest set the text index is created when missing; otherwise
// a missing text index degrades retrieval to vector-only.
func openLibrary(cfg *config.Config, forIngest bool) (*library, error) {
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	textPath, err := internal.DefaultTextIndexPath(cfg.Library)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to determine text index path: %w", err)
	}

	var text *textindex.Index
	if forIngest {
		text, err = textindex.OpenOrCreate(textPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open text index: %w", err)
		}
	} else {
		text, err = textindex.Open(textPath)
		if err != nil {
			text = nil
		}
	}

	embedService, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		if text != nil {
			text.Close()
		}
		db.Close()
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}

	return &library{
		cfg:     cfg,
		db:      db,
		text:    text,
		embed:   embedService,
		docs:    store.NewDocumentStore(db),
		chunks:  store.NewChunkStore(db),
		vectors: store.NewVectorStore(db),
	}, nil
}

func (l *library) Close() {
	if l.text != nil {
		l.text.Close()
	}
	l.db.Close()
}

func (l *library) retriever() *retrieval.Retriever {
	return retrieval.NewRetriever(l.vectors, l.chunks, l.docs, l.text, l.embed)
}

// searchOptions builds retrieval options from the config, falling back
// to the retrieval defaults for unset values.
func (l *library) searchOptions() retrieval.Options {
	opts := retrieval.DefaultOptions()
	if l.cfg.Search.DefaultTopK > 0 {
		opts.TopK = l.cfg.Search.DefaultTopK
	}
	if l.cfg.Search.VectorWeight > 0 || l.cfg.Search.KeywordWeight > 0 {
		opts.VectorWeight = l.cfg.Search.VectorWeight
		opts.KeywordWeight = l.cfg.Search.KeywordWeight
	}
	opts.MinScore = l.cfg.Search.MinScore
	return opts
}
