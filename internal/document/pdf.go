package document

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// loadPDF extracts plain text from a PDF, one Page per PDF page.
// Pages that fail text extraction are skipped with a placeholder-free
// gap rather than aborting the whole document.
func loadPDF(path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	doc := &Document{
		Path:  path,
		Title: titleFromPath(path),
	}

	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Number: num, Text: text})
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return doc, nil
}
