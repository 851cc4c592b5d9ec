package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/DreamCats/docchat/internal/answer"
	"github.com/DreamCats/docchat/internal/config"
)

// handleChat implements the chat subcommand
func handleChat(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)

	var topK int
	var showSources bool
	fs.IntVar(&topK, "k", 0, "Number of chunks to retrieve per question (default from config)")
	fs.BoolVar(&showSources, "sources", false, "Show source passages below each answer")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docchat chat [options]

DESCRIPTION:
    Interactive question/answer session over the ingested documents.
    Type "exit" to quit.

OPTIONS:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

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

	fmt.Printf("💬 Chatting with library: %s\n", cfg.Library)
	fmt.Println("Type \"exit\" to quit.")
	fmt.Println()

	retriever := lib.retriever()
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExit(question) {
			break
		}

		ans, err := askOnce(ctx, retriever, gen, question, opts)
		if err != nil {
			// One failed question must not end the session.
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			continue
		}

		fmt.Println(ans.Text)
		if showSources {
			printSources(ans.Sources)
		}
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	fmt.Println("Bye!")
}

// isExit reports whether a trimmed input line ends the session.
func isExit(line string) bool {
	return strings.EqualFold(line, "exit")
}
