package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	content := "# Heading\n\nsome body text"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("Title = %q, want %q", doc.Title, "notes")
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 {
		t.Errorf("page number = %d, want 1", doc.Pages[0].Number)
	}
	if doc.Pages[0].Text != content {
		t.Errorf("page text = %q, want %q", doc.Pages[0].Text, content)
	}
	if doc.Text() != content {
		t.Errorf("Text() = %q, want %q", doc.Text(), content)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("report.docx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"manual.pdf", true},
		{"Manual.PDF", true},
		{"readme.md", true},
		{"readme.markdown", true},
		{"log.txt", true},
		{"binary.exe", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDocumentTextJoinsPages(t *testing.T) {
	doc := &Document{Pages: []Page{
		{Number: 1, Text: "first"},
		{Number: 2, Text: "second"},
	}}
	if got, want := doc.Text(), "first\nsecond"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
