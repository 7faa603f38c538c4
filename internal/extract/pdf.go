package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/avolkov/podtrace/internal/model"
)

// PDFExtractor extracts text from a PDF by page range using the
// pdftotext binary (poppler-utils)
type PDFExtractor struct {
	// Injectable for tests
	runText func(ctx context.Context, pdfPath string, firstPage, lastPage int) (string, error)
	runInfo func(ctx context.Context, pdfPath string) (string, error)
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{
		runText: runPDFToText,
		runInfo: runPDFInfo,
	}
}

// ExtractSections extracts each configured page range into a section.
// Page ranges are 1-indexed and inclusive, as they appear in PDF viewers.
// Ranges past the end of the document are clamped; a section that starts
// past the last page extracts as empty rather than failing the run.
func (e *PDFExtractor) ExtractSections(ctx context.Context, pdfPath string, ranges []model.SectionRange) (*model.SectionStore, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("PDF not found: %s: %w", pdfPath, err)
	}

	pageCount, err := e.PageCount(ctx, pdfPath)
	if err != nil {
		// pdfinfo missing or the file resists metadata extraction;
		// pdftotext may still work, so carry on without clamping
		pageCount = 0
	}

	store := model.NewSectionStore()

	for _, r := range ranges {
		start, end := r.Start, r.End

		if pageCount > 0 {
			if start > pageCount {
				store.Add(r.Name, "")
				continue
			}
			if end > pageCount {
				end = pageCount
			}
		}

		text, err := e.runText(ctx, pdfPath, start, end)
		if err != nil {
			return nil, fmt.Errorf("extract section %q (pages %d-%d): %w", r.Name, start, end, err)
		}

		store.Add(r.Name, strings.TrimSpace(text))
	}

	return store, nil
}

// PageCount returns the number of pages in the PDF via pdfinfo
func (e *PDFExtractor) PageCount(ctx context.Context, pdfPath string) (int, error) {
	out, err := e.runInfo(ctx, pdfPath)
	if err != nil {
		return 0, err
	}
	return parsePageCount(out)
}

var pagesLine = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// parsePageCount reads the "Pages:" line from pdfinfo output
func parsePageCount(info string) (int, error) {
	match := pagesLine.FindStringSubmatch(info)
	if len(match) < 2 {
		return 0, fmt.Errorf("no Pages line in pdfinfo output")
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("parse page count: %w", err)
	}
	return n, nil
}

// runPDFToText executes pdftotext for one page range, writing to stdout
func runPDFToText(ctx context.Context, pdfPath string, firstPage, lastPage int) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(firstPage),
		"-l", strconv.Itoa(lastPage),
		"-raw", pdfPath, "-")

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if strings.Contains(err.Error(), "executable file not found") {
			return "", fmt.Errorf("pdftotext binary not found; please install poppler-utils")
		}
		return "", fmt.Errorf("pdftotext failed: %v: %s", err, errMsg)
	}

	return out.String(), nil
}

// runPDFInfo executes pdfinfo and returns its raw output
func runPDFInfo(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdfinfo failed: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	return out.String(), nil
}
