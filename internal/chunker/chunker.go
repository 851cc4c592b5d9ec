package chunker

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Default splitter parameters. The separator list is ordered by
// preference: paragraph break, line break, word break, hard cut.
const (
	DefaultChunkSize = 512
	DefaultOverlap   = 64
)

// DefaultSeparators returns the default separator priority list.
// The empty string means a hard cut at the window edge.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", " ", ""}
}

// Chunk is a bounded substring of a source text.
type Chunk struct {
	Text   string // raw chunk text, overlaps its neighbors
	Offset int    // rune offset into the source text
	Page   int    // 1-based page number, 0 if unknown
	Seq    int    // position within the document
	Hash   string // sha1 of the chunk text
}

// Splitter splits text into overlapping chunks, cutting preferentially
// at the first separator in priority order that fits the window.
type Splitter struct {
	ChunkSize  int
	Overlap    int
	Separators []string
}

// NewSplitter creates a splitter, falling back to defaults for
// non-positive sizes and an empty separator list.
func NewSplitter(chunkSize, overlap int, separators []string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	if len(separators) == 0 {
		separators = DefaultSeparators()
	}
	return &Splitter{
		ChunkSize:  chunkSize,
		Overlap:    overlap,
		Separators: separators,
	}
}

// Split splits text into ordered overlapping chunks. Consecutive chunks
// overlap by s.Overlap runes at the boundary; the final chunk may be
// shorter than s.ChunkSize. Chunks that are empty after whitespace
// stripping are dropped. Deterministic for identical input.
func (s *Splitter) Split(text string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var out []Chunk
	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		} else {
			end = s.cut(runes, start, end)
		}

		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			out = append(out, Chunk{
				Text:   chunk,
				Offset: start,
				Seq:    len(out),
				Hash:   hashText(chunk),
			})
		}

		if end == len(runes) {
			break
		}
		next := end - s.Overlap
		if next <= start {
			// Overlap would stall the splitter on a short chunk.
			next = end
		}
		start = next
	}
	return out
}

// cut picks the end of the chunk starting at start with provisional end
// at the window edge. It prefers the last occurrence of the highest
// priority separator inside the window, as long as the resulting chunk
// stays longer than the overlap so the splitter keeps advancing.
func (s *Splitter) cut(runes []rune, start, end int) int {
	window := string(runes[start:end])
	for _, sep := range s.Separators {
		if sep == "" {
			return end
		}
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		cutEnd := start + len([]rune(window[:idx])) + len([]rune(sep))
		if cutEnd-start > s.Overlap {
			return cutEnd
		}
	}
	return end
}

func hashText(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
