package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/avolkov/podtrace/internal/model"
	"github.com/avolkov/podtrace/internal/worker"
)

var _ worker.Runner = (*Pipeline)(nil)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Output.Dir = t.TempDir()

	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p
}

func TestNewPipelineUnknownProvider(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "nonsense"

	if _, err := NewPipeline(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRunInvalidJob(t *testing.T) {
	p := testPipeline(t)

	_, err := p.Run(context.Background(), &model.Job{})
	if err == nil {
		t.Error("expected validation error for empty job")
	}
}

func TestRunMissingPDF(t *testing.T) {
	p := testPipeline(t)

	job := &model.Job{
		PDFPath:  filepath.Join(t.TempDir(), "missing.pdf"),
		Sections: []model.SectionRange{{Name: "Intro", Start: 1, End: 2}},
	}

	_, err := p.Run(context.Background(), job)
	if err == nil {
		t.Error("expected error for missing PDF")
	}
}

func TestRunFileMissingJob(t *testing.T) {
	p := testPipeline(t)

	if _, err := p.RunFile(context.Background(), "no_such_job.yaml"); err == nil {
		t.Error("expected error for missing job file")
	}
}

func TestOutputDirFor(t *testing.T) {
	p := testPipeline(t)

	tests := []struct {
		pdfPath string
		want    string
	}{
		{"reports/annual-2024.pdf", "annual-2024"},
		{"plain.pdf", "plain"},
		{"no-extension", "no-extension"},
	}

	for _, tt := range tests {
		got := p.outputDirFor(&model.Job{PDFPath: tt.pdfPath})
		if filepath.Base(got) != tt.want {
			t.Errorf("outputDirFor(%q) = %q, want base %q", tt.pdfPath, got, tt.want)
		}
	}
}
