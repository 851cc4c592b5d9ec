package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/ingest"
	"github.com/DreamCats/docchat/internal/retrieval"
)

// handleSearch implements the search subcommand
func handleSearch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	var topK int
	var vectorOnly, keywordOnly, jsonOutput, verbose bool

	fs.IntVar(&topK, "k", 0, "Number of results to return (default from config)")
	fs.BoolVar(&vectorOnly, "vector-only", false, "Use vector search only")
	fs.BoolVar(&keywordOnly, "keyword-only", false, "Use keyword search only")
	fs.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	fs.BoolVar(&verbose, "v", false, "Verbose output (show scores)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docchat search [options] "<query>"

DESCRIPTION:
    Retrieve the chunks that best match a query, without calling the
    chat model. Combines vector similarity and keyword matching.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Hybrid search
    docchat search "cache invalidation strategy"

    # Keyword-only search
    docchat search "TTL" -keyword-only

    # Top 10 results with scores
    docchat search "error budgets" -k 10 -v

    # JSON output for scripting
    docchat search "rollback procedure" -json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: search query is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	query := fs.Arg(0)

	lib, err := openLibrary(cfg, false)
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}
	defer lib.Close()

	opts := lib.searchOptions()
	if topK > 0 {
		opts.TopK = topK
	}
	if vectorOnly {
		opts.VectorWeight = 1.0
		opts.KeywordWeight = 0.0
	} else if keywordOnly {
		opts.VectorWeight = 0.0
		opts.KeywordWeight = 1.0
	}

	stop := ingest.StartSpinner(ingest.DefaultProgressEnabled(), "searching")
	results, err := lib.retriever().Retrieve(context.Background(), query, opts)
	stop()
	if err != nil {
		if err == retrieval.ErrNoResults {
			fmt.Println("No results found")
			return
		}
		log.Fatalf("Search failed: %v", err)
	}

	if jsonOutput {
		outputJSON(results, query)
	} else {
		outputText(results, query, verbose)
	}
}

// outputText outputs search results as human-readable text
func outputText(results []retrieval.Result, query string, verbose bool) {
	fmt.Printf("Found %d result(s) for: %s\n\n", len(results), query)

	for i, result := range results {
		source := result.Chunk.DocumentID
		if result.Document != nil {
			source = filepath.Base(result.Document.Path)
		}
		fmt.Printf("%d. %s", i+1, source)
		if result.Chunk.Page > 0 {
			fmt.Printf(" (page %d)", result.Chunk.Page)
		}
		fmt.Println()

		if verbose {
			if result.VectorScore > 0 {
				fmt.Printf("   Vector:  %.3f\n", result.VectorScore)
			}
			if result.KeywordScore > 0 {
				fmt.Printf("   Keyword: %.3f\n", result.KeywordScore)
			}
			fmt.Printf("   Score:   %.3f\n", result.CombinedScore)
		}

		text := strings.TrimSpace(result.Chunk.Content)
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Printf("   %s\n\n", strings.ReplaceAll(text, "\n", " "))
	}
}

// outputJSON outputs search results as JSON
func outputJSON(results []retrieval.Result, query string) {
	output := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal results: %v", err)
	}
	fmt.Println(string(jsonData))
}
