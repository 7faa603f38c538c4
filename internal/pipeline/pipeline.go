// Package pipeline orchestrates a complete run: extract sections from a
// PDF, generate the podcast script, verify it against the source, and
// write the output artifacts.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkov/podtrace/internal/cache"
	"github.com/avolkov/podtrace/internal/extract"
	"github.com/avolkov/podtrace/internal/llm"
	"github.com/avolkov/podtrace/internal/model"
	"github.com/avolkov/podtrace/internal/report"
	"github.com/avolkov/podtrace/internal/script"
	"github.com/avolkov/podtrace/internal/verify"
	"github.com/avolkov/podtrace/internal/worker"
)

// Pipeline wires the extraction, generation, verification and rendering
// stages around a single configured provider
type Pipeline struct {
	extractor *extract.PDFExtractor
	generator *script.Generator
	verifier  *verify.Verifier
	renderer  *report.Renderer
	config    *model.Config
}

// NewPipeline creates a pipeline from the given configuration. The
// provider is wrapped with response caching and rate limiting according
// to the config.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize provider: %w", err)
	}

	if cfg.RateLimiting.RequestsPerSecond > 0 {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		provider = llm.NewRateLimitedProvider(provider, limiter)
	}

	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		provider = llm.NewCachedProvider(provider, store, cfg.LLM.Model, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		extractor: extract.NewPDFExtractor(),
		generator: script.NewGenerator(provider),
		verifier:  verify.NewVerifier(provider),
		renderer:  report.NewRenderer(),
		config:    cfg,
	}, nil
}

// RunResult contains everything produced by one run
type RunResult struct {
	Sections  *model.SectionStore
	Script    string
	Report    *model.VerificationReport
	OutputDir string
	Artifacts []string
}

// Run executes the full pipeline for one job
func (p *Pipeline) Run(ctx context.Context, job *model.Job) (*RunResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	verbose := p.config.Output.Verbose

	// 1. Extract sections from the PDF
	sections, err := p.extractor.ExtractSections(ctx, job.PDFPath, job.Sections)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d sections (%d words) from %s\n",
			sections.Len(), sections.TotalWords(), job.PDFPath)
	}

	// 2. Generate the podcast script
	scriptText, err := p.generator.Generate(ctx, sections, job.TargetWordCount)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Generated script (%d words)\n", model.CountWords(scriptText))
	}

	// 3. Verify the script against the source sections
	verification, err := p.verifier.Verify(ctx, scriptText, sections)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Verification complete: %d claims, %d hallucinations\n",
			verification.Summary.TotalClaims, verification.Summary.HallucinatedClaims)
		for _, d := range verification.Diagnostics {
			fmt.Fprintf(os.Stderr, "  ! %s\n", d)
		}
	}

	// 4. Write artifacts
	outputDir := p.outputDirFor(job)
	artifacts, err := p.renderer.WriteArtifacts(outputDir, scriptText, verification)
	if err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}
	if verbose {
		for _, path := range artifacts {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
		}
	}

	return &RunResult{
		Sections:  sections,
		Script:    scriptText,
		Report:    verification,
		OutputDir: outputDir,
		Artifacts: artifacts,
	}, nil
}

// RunFile loads a job file and runs it. This satisfies worker.Runner so
// batch processing can reuse one pipeline across jobs.
func (p *Pipeline) RunFile(ctx context.Context, jobPath string) (*model.VerificationReport, error) {
	job, err := model.LoadJob(jobPath)
	if err != nil {
		return nil, err
	}

	result, err := p.Run(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", jobPath, err)
	}

	return result.Report, nil
}

// outputDirFor places each job's artifacts in a subdirectory named after
// the PDF so batch runs do not overwrite each other
func (p *Pipeline) outputDirFor(job *model.Job) string {
	base := filepath.Base(job.PDFPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		name = "run"
	}
	return filepath.Join(p.config.Output.Dir, name)
}
