package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/avolkov/podtrace/internal/model"
)

// MockRunner implements Runner
type MockRunner struct {
	ShouldError bool
}

func (m *MockRunner) RunFile(ctx context.Context, jobPath string) (*model.VerificationReport, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("run error")
	}
	return model.NewVerificationReport(nil, nil, nil, 1, nil), nil
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2)

	paths := []string{"a.yaml", "b.yaml", "c.yaml"}
	outcomes := processor.ProcessFiles(context.Background(), paths)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}

	for i, out := range outcomes {
		if out.JobPath != paths[i] {
			t.Errorf("outcome %d is for %s, want %s", i, out.JobPath, paths[i])
		}
		if out.Error != nil {
			t.Errorf("unexpected error for %s: %v", out.JobPath, out.Error)
		}
		if out.Report == nil {
			t.Errorf("expected report for %s", out.JobPath)
		}
	}
}

// blockingRunner holds every job until its context is canceled
type blockingRunner struct{}

func (r *blockingRunner) RunFile(ctx context.Context, jobPath string) (*model.VerificationReport, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBatchProcessor_CanceledContext(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := processor.ProcessFiles(ctx, []string{"a.yaml", "b.yaml", "c.yaml"})
	for _, out := range outcomes {
		if !errors.Is(out.Error, context.Canceled) {
			t.Errorf("expected context.Canceled for %s, got %v", out.JobPath, out.Error)
		}
	}
}

func TestBatchProcessor_TimeoutCancelsInFlightJobs(t *testing.T) {
	processor := NewBatchProcessor(&blockingRunner{}, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan []*RunOutcome, 1)
	go func() {
		done <- processor.ProcessFiles(ctx, []string{"a.yaml", "b.yaml", "c.yaml"})
	}()

	select {
	case outcomes := <-done:
		for _, out := range outcomes {
			if !errors.Is(out.Error, context.DeadlineExceeded) {
				t.Errorf("expected deadline error for %s, got %v", out.JobPath, out.Error)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not observe the context deadline")
	}
}

func TestBatchProcessor_ProcessFiles_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{ShouldError: true}, 2)

	outcomes := processor.ProcessFiles(context.Background(), []string{"a.yaml"})

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if outcomes[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessFiles_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2)

	outcomes := processor.ProcessFiles(context.Background(), nil)
	if len(outcomes) != 0 {
		t.Errorf("expected 0 outcomes, got %d", len(outcomes))
	}
}

func TestReadJobPathsFromFile(t *testing.T) {
	content := `jobs/report-2024.yaml
# comment
jobs/report-2023.yaml

jobs/report-2024.yaml`

	tmpfile, err := os.CreateTemp("", "manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadJobPathsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadJobPathsFromFile failed: %v", err)
	}

	expected := []string{"jobs/report-2024.yaml", "jobs/report-2023.yaml"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}
	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestReadJobPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadJobPathsFromFile("no_such_manifest.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessManifest(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "manifest")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte("a.yaml\nb.yaml\n")); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockRunner{}, 2)
	outcomes, err := processor.ProcessManifest(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessManifest failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Errorf("expected 2 outcomes, got %d", len(outcomes))
	}
}

func TestBatchProcessor_ProcessManifest_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2)

	_, err := processor.ProcessManifest(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent manifest, got nil")
	}
}
