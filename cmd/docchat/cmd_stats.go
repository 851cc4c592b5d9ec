package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/store"
)

// handleStats implements the stats subcommand
func handleStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docchat stats [options]

DESCRIPTION:
    Show statistics about the current document library.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Show human-readable statistics
    docchat stats

    # JSON output
    docchat stats -json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		log.Fatalf("Failed to read statistics: %v", err)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"library":    cfg.Library,
			"documents":  stats.DocumentCount,
			"chunks":     stats.ChunkCount,
			"embeddings": stats.EmbeddingCount,
			"size_bytes": stats.SizeBytes,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		fmt.Println("📊 Library Statistics")
		fmt.Println()
		fmt.Printf("Library:    %s\n", cfg.Library)
		fmt.Printf("Documents:  %6d\n", stats.DocumentCount)
		fmt.Printf("Chunks:     %6d\n", stats.ChunkCount)
		fmt.Printf("Embeddings: %6d\n", stats.EmbeddingCount)
		fmt.Printf("DB size:    %6.1f KB\n", float64(stats.SizeBytes)/1024)
	}
}
