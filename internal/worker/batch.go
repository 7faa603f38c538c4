package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/avolkov/podtrace/internal/model"
)

// Runner runs a single verification job file end to end
type Runner interface {
	RunFile(ctx context.Context, jobPath string) (*model.VerificationReport, error)
}

// RunOutcome is the result of processing one job file
type RunOutcome struct {
	JobPath string
	Report  *model.VerificationReport
	Error   error
}

// BatchProcessor runs verification jobs with bounded concurrency.
// Jobs run under the caller's context, so a batch timeout cancels
// in-flight runs and fails the ones still queued.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessFiles runs each job file and returns one outcome per path, in
// input order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, jobPaths []string) []*RunOutcome {
	outcomes := make([]*RunOutcome, len(jobPaths))
	slots := make(chan struct{}, b.concurrency)

	var wg sync.WaitGroup
	for i, path := range jobPaths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case slots <- struct{}{}:
				defer func() { <-slots }()
			case <-ctx.Done():
				outcomes[i] = &RunOutcome{JobPath: path, Error: ctx.Err()}
				return
			}

			// The slot may have been won in a race with cancellation
			if err := ctx.Err(); err != nil {
				outcomes[i] = &RunOutcome{JobPath: path, Error: err}
				return
			}

			report, err := b.runner.RunFile(ctx, path)
			outcomes[i] = &RunOutcome{JobPath: path, Report: report, Error: err}
		}(i, path)
	}
	wg.Wait()

	return outcomes
}

// ProcessManifest reads job file paths from a manifest and processes them
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*RunOutcome, error) {
	paths, err := ReadJobPathsFromFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadJobPathsFromFile reads job file paths from a manifest (one per line)
func ReadJobPathsFromFile(manifestPath string) ([]string, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
