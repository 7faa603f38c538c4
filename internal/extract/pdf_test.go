package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/avolkov/podtrace/internal/model"
)

// writeTempPDF creates a placeholder file so the extractor's existence
// check passes; the exec funcs are injected so no real PDF is needed
func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestPDFExtractor_ExtractSections(t *testing.T) {
	path := writeTempPDF(t)

	extractor := &PDFExtractor{
		runText: func(ctx context.Context, pdfPath string, first, last int) (string, error) {
			return fmt.Sprintf("text for pages %d to %d", first, last), nil
		},
		runInfo: func(ctx context.Context, pdfPath string) (string, error) {
			return "Title: Annual Report\nPages: 10\n", nil
		},
	}

	ranges := []model.SectionRange{
		{Name: "Overview", Start: 1, End: 3},
		{Name: "Financials", Start: 4, End: 7},
	}

	store, err := extractor.ExtractSections(context.Background(), path, ranges)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("Expected 2 sections, got %d", store.Len())
	}

	labels := store.Labels()
	if labels[0] != "Overview" || labels[1] != "Financials" {
		t.Errorf("Expected section order preserved, got %v", labels)
	}

	sec, ok := store.Get("Overview")
	if !ok {
		t.Fatal("Expected Overview section to exist")
	}
	if sec.Text != "text for pages 1 to 3" {
		t.Errorf("Unexpected section text: %q", sec.Text)
	}
	if sec.WordCount != 5 {
		t.Errorf("Expected word count 5, got %d", sec.WordCount)
	}
}

func TestPDFExtractor_ClampsRangePastEnd(t *testing.T) {
	path := writeTempPDF(t)

	var gotLast int
	extractor := &PDFExtractor{
		runText: func(ctx context.Context, pdfPath string, first, last int) (string, error) {
			gotLast = last
			return "tail text", nil
		},
		runInfo: func(ctx context.Context, pdfPath string) (string, error) {
			return "Pages: 5\n", nil
		},
	}

	ranges := []model.SectionRange{
		{Name: "Tail", Start: 4, End: 20},
	}

	if _, err := extractor.ExtractSections(context.Background(), path, ranges); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotLast != 5 {
		t.Errorf("Expected last page clamped to 5, got %d", gotLast)
	}
}

func TestPDFExtractor_SectionPastEndExtractsEmpty(t *testing.T) {
	path := writeTempPDF(t)

	extractor := &PDFExtractor{
		runText: func(ctx context.Context, pdfPath string, first, last int) (string, error) {
			t.Error("pdftotext should not run for a section past the last page")
			return "", nil
		},
		runInfo: func(ctx context.Context, pdfPath string) (string, error) {
			return "Pages: 3\n", nil
		},
	}

	ranges := []model.SectionRange{
		{Name: "Appendix", Start: 8, End: 9},
	}

	store, err := extractor.ExtractSections(context.Background(), path, ranges)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	sec, ok := store.Get("Appendix")
	if !ok {
		t.Fatal("Expected Appendix section to exist")
	}
	if sec.Text != "" {
		t.Errorf("Expected empty text, got %q", sec.Text)
	}
}

func TestPDFExtractor_MissingFile(t *testing.T) {
	extractor := NewPDFExtractor()

	_, err := extractor.ExtractSections(context.Background(), "/nonexistent/report.pdf", []model.SectionRange{
		{Name: "A", Start: 1, End: 1},
	})
	if err == nil {
		t.Fatal("Expected error for missing PDF")
	}
}

func TestParsePageCount(t *testing.T) {
	tests := []struct {
		name    string
		info    string
		want    int
		wantErr bool
	}{
		{"typical output", "Title: Report\nAuthor: Someone\nPages: 42\nEncrypted: no\n", 42, false},
		{"single digit", "Pages: 7\n", 7, false},
		{"missing line", "Title: Report\n", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePageCount(tt.info)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
