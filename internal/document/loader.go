package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one ordered page of raw text extracted from a source file.
type Page struct {
	Number int // 1-based
	Text   string
}

// Document is the loaded form of a source file before chunking.
type Document struct {
	Path  string
	Title string
	Pages []Page
}

// Text concatenates all pages into a single string.
func (d *Document) Text() string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// SupportedExtensions lists the file extensions Load understands.
func SupportedExtensions() []string {
	return []string{".pdf", ".md", ".markdown", ".txt"}
}

// IsSupported reports whether path has a loadable extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// Load reads a source file and returns its ordered pages of raw text.
// The loader is picked by file extension; unknown extensions are an error.
func Load(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".md", ".markdown", ".txt":
		return loadText(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// titleFromPath derives a document title from the file name.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
