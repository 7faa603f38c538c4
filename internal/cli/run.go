package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/podtrace/internal/model"
	"github.com/avolkov/podtrace/internal/pipeline"
)

var (
	llmProvider string
	llmModel    string
	baseURL     string
	runTimeout  time.Duration
	outputDir   string
	noCache     bool
	rps         float64
	burst       int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <job-file>",
	Short: "Generate and verify a podcast script from one job file",
	Long: `Run executes the full pipeline for a single job file:
- Extract the configured page ranges from the PDF into named sections
- Generate a two-host podcast script from the sections
- Verify every factual claim in the script against the source
- Write the script and verification reports to the output directory

The job file (YAML or JSON) names the PDF, its sections, and the target
script length:

  pdf_path: reports/annual-2024.pdf
  target_word_count: 2000
  sections:
    - name: Executive Summary
      start: 3
      end: 5
    - name: Financial Results
      start: 6
      end: 12

Example:
  podtrace run job.yaml
  podtrace run job.yaml --provider anthropic --verbose
  podtrace run job.yaml --provider ollama --model llama3.1 --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addPipelineFlags(runCmd)
}

// addPipelineFlags registers the flags shared by run, batch and serve
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (openai, anthropic, ollama, gemini)")
	cmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default if empty)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "override provider base URL")
	cmd.Flags().DurationVar(&runTimeout, "timeout", 15*time.Minute, "overall run timeout")
	cmd.Flags().StringVar(&outputDir, "output", "", "output directory (default: podtrace-output)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable LLM response cache")
	cmd.Flags().Float64Var(&rps, "rps", 0, "requests per second against the provider (0 = config default)")
	cmd.Flags().IntVar(&burst, "burst", 0, "rate limit burst size (0 = config default)")
}

// buildConfig assembles the pipeline configuration from defaults, config
// file values and flags, and resolves the provider API key from the
// environment
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if rps > 0 {
		cfg.RateLimiting.RequestsPerSecond = rps
	}
	if burst > 0 {
		cfg.RateLimiting.BurstSize = burst
	}
	cfg.Output.Verbose = verbose

	// Resolve credentials from the environment
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "gemini", "google":
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if url := os.Getenv("OLLAMA_BASE_URL"); url != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = url
		}
	}

	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	jobPath := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	job, err := model.LoadJob(jobPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Job: %s\n", jobPath)
		fmt.Fprintf(os.Stderr, "PDF: %s (%d sections)\n", job.PDFPath, len(job.Sections))
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := p.Run(ctx, job)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("✓ Script: %d words\n", model.CountWords(result.Script))
	fmt.Printf("✓ Claims: %d analyzed, %d flagged\n",
		result.Report.Summary.TotalClaims, result.Report.Summary.HallucinatedClaims)
	fmt.Printf("✓ Output: %s\n", result.OutputDir)

	return nil
}
