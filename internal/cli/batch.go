package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/podtrace/internal/pipeline"
	"github.com/avolkov/podtrace/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Run multiple job files from a manifest in parallel",
	Long: `Batch processes multiple job files concurrently:
- Read job file paths from the manifest (one per line, # for comments)
- Run jobs in parallel with a configurable worker count
- Each job writes its artifacts to its own output subdirectory

Example:
  podtrace batch jobs.txt
  podtrace batch jobs.txt --concurrency 4 --output ./reports
  podtrace batch jobs.txt --provider anthropic --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchCmd,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 60*time.Minute, "total timeout for batch processing")
	addPipelineFlags(batchCmd)
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	manifest := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Manifest: %s\n", manifest)
	fmt.Fprintf(os.Stderr, "Workers:  %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output:   %s\n", cfg.Output.Dir)
	fmt.Fprintln(os.Stderr)

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)
	outcomes, err := processor.ProcessManifest(ctx, manifest)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.JobPath, outcome.Error)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %d claims, %d flagged\n",
			outcome.JobPath, outcome.Report.Summary.TotalClaims, outcome.Report.Summary.HallucinatedClaims)
	}

	fmt.Printf("\nProcessed %d jobs: %d succeeded, %d failed\n",
		len(outcomes), successCount, failureCount)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d jobs failed", failureCount, len(outcomes))
	}

	return nil
}
