package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/DreamCats/docchat/internal/answer"
	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/ingest"
	"github.com/DreamCats/docchat/internal/retrieval"
)

// handleAsk implements the ask subcommand
func handleAsk(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)

	var topK int
	var showSources, jsonOutput bool
	fs.IntVar(&topK, "k", 0, "Number of chunks to retrieve (default from config)")
	fs.BoolVar(&showSources, "sources", false, "Show the source passages below the answer")
	fs.BoolVar(&jsonOutput, "json", false, "Output the answer and sources as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docchat ask [options] "<question>"

DESCRIPTION:
    Answer a single question grounded in the ingested documents and exit.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    docchat ask "what is the retry policy?"
    docchat ask -sources "who approves schema changes?"
    docchat ask -json "list the deployment steps"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: question is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	question := fs.Arg(0)

	lib, err := openLibrary(cfg, false)
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}
	defer lib.Close()

	gen, err := answer.NewGenerator(&cfg.Chat)
	if err != nil {
		log.Fatalf("Failed to create answer generator: %v", err)
	}

	opts := lib.searchOptions()
	if topK > 0 {
		opts.TopK = topK
	}

	ans, err := askOnce(context.Background(), lib.retriever(), gen, question, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"question": question,
			"answer":   ans.Text,
			"sources":  ans.Sources,
		}
		jsonData, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal answer: %v", err)
		}
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println(ans.Text)
	if showSources {
		printSources(ans.Sources)
	}
}

// askOnce retrieves context for the question and generates an answer,
// with a spinner over the blocking remote calls.
func askOnce(ctx context.Context, r *retrieval.Retriever, gen *answer.Generator, question string, opts retrieval.Options) (*answer.Answer, error) {
	stop := ingest.StartSpinner(ingest.DefaultProgressEnabled(), "thinking")
	defer stop()

	results, err := r.Retrieve(ctx, question, opts)
	if err != nil {
		if err == retrieval.ErrNoResults {
			return nil, fmt.Errorf("no relevant documents found; run `docchat ingest` first")
		}
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	ans, err := gen.Generate(ctx, question, results)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}
	return ans, nil
}

func printSources(sources []retrieval.Result) {
	fmt.Println("\nSources:")
	for i, src := range sources {
		name := src.Chunk.DocumentID
		if src.Document != nil {
			name = filepath.Base(src.Document.Path)
		}
		if src.Chunk.Page > 0 {
			fmt.Printf("  [%d] %s, page %d\n", i+1, name, src.Chunk.Page)
		} else {
			fmt.Printf("  [%d] %s\n", i+1, name)
		}
	}
}
