package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/DreamCats/docchat/cmd/docchat/internal"
	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/ingest"
)

// handleIngest implements the ingest subcommand
func handleIngest(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	force := fs.Bool("force", false, "Re-ingest documents that are already in the library")
	noProgress := fs.Bool("no-progress", false, "Disable the progress bar")
	var exclude internal.StringList
	fs.Var(&exclude, "exclude", "Glob pattern to skip (repeatable, adds to config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docchat ingest [options] [path]

DESCRIPTION:
    Load documents from the library (or a given path), split them into
    overlapping chunks, index the chunk text, and store embeddings.
    Supported formats: pdf, md, markdown, txt.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Ingest the whole library
    docchat ingest

    # Ingest one file
    docchat ingest manual.pdf

    # Re-ingest everything after changing chunker settings
    docchat ingest -force

    # Skip drafts
    docchat ingest -exclude "drafts/**"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	cfg.Ingest.Exclude = append(cfg.Ingest.Exclude, exclude...)

	path := cfg.Library
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("Path does not exist: %s", path)
	}

	fmt.Printf("📚 Ingesting documents from: %s\n\n", path)

	lib, err := openLibrary(cfg, true)
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}
	defer lib.Close()

	ing := ingest.NewIngestor(cfg, lib.db, lib.text, lib.embed)
	if !*noProgress && ingest.DefaultProgressEnabled() {
		ing.SetProgress(ingest.NewProgress(true))
	}

	summary, err := ing.Run(context.Background(), path, *force)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ Ingestion completed!")
	fmt.Printf("\n⏱️  Duration: %v\n", summary.Duration.Round(time.Millisecond))
	fmt.Println("\n📊 Summary:")
	fmt.Printf("   Ingested: %6d\n", summary.FilesIngested)
	fmt.Printf("   Skipped:  %6d\n", summary.FilesSkipped)
	fmt.Printf("   Failed:   %6d\n", summary.FilesFailed)
	fmt.Printf("   Chunks:   %6d\n", summary.ChunksCreated)
}
