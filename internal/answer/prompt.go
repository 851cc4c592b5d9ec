package answer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DreamCats/docchat/internal/retrieval"
)

const defaultSystemPrompt = "You are a helpful assistant that answers questions about the user's documents. " +
	"Answer using ONLY the provided context passages. " +
	"If the context does not contain the answer, say you don't know instead of guessing. " +
	"Cite the source document name when it helps the reader."

// buildPrompt assembles the user message: numbered context passages
// followed by the question. Passages are included in rank order until
// the character budget is exhausted; the last passage that does not fit
// whole is truncated at a rune boundary.
func buildPrompt(question string, results []retrieval.Result, maxContextChars int) string {
	var b strings.Builder
	b.WriteString("Context passages:\n\n")

	remaining := maxContextChars
	n := 0
	for _, res := range results {
		if remaining <= 0 {
			break
		}

		source := res.Chunk.DocumentID
		if res.Document != nil {
			source = filepath.Base(res.Document.Path)
			if res.Chunk.Page > 0 {
				source = fmt.Sprintf("%s, page %d", source, res.Chunk.Page)
			}
		}

		text := res.Chunk.Content
		if runes := []rune(text); len(runes) > remaining {
			text = string(runes[:remaining])
		}

		n++
		b.WriteString(fmt.Sprintf("[%d] (%s)\n%s\n\n", n, source, text))
		remaining -= len([]rune(text))
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
