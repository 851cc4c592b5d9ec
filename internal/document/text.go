package document

import (
	"fmt"
	"os"
)

// loadText reads a markdown or plain-text file as a single page.
func loadText(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &Document{
		Path:  path,
		Title: titleFromPath(path),
		Pages: []Page{{Number: 1, Text: string(data)}},
	}, nil
}
