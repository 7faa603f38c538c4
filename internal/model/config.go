package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration
type Config struct {
	LLM          LLMConfig         `yaml:"llm" json:"llm"`
	Cache        CacheConfig       `yaml:"cache" json:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" json:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output       OutputConfig      `yaml:"output" json:"output"`
}

// LLMConfig holds provider configuration
type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, gemini
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"-" json:"-"` // From environment only, never persisted
	BaseURL  string `yaml:"base_url" json:"base_url"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // seconds

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" json:"no_proxy"`
}

// CacheConfig controls LLM response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// RateLimitConfig limits request rates against provider APIs
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// ConcurrencyConfig controls batch processing parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// OutputConfig controls rendering behavior
type OutputConfig struct {
	Dir           string `yaml:"dir" json:"dir"`
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "",
			Timeout:  120,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1.0,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
		Output: OutputConfig{
			Dir:           "podtrace-output",
			IncludeFooter: true,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".podtrace-cache"
	}
	return home + "/.podtrace/cache"
}

// Job describes one pipeline run: which PDF to read, which page ranges
// to extract, and how long the script should be
type Job struct {
	PDFPath         string         `yaml:"pdf_path" json:"pdf_path"`
	Sections        []SectionRange `yaml:"sections" json:"sections"`
	TargetWordCount int            `yaml:"target_word_count" json:"target_word_count"`
}

// SectionRange names a section and its inclusive 1-indexed page range
type SectionRange struct {
	Name  string `yaml:"name" json:"name"`
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end" json:"end"`
}

// LoadJob reads and validates a job file. YAML and JSON are both accepted.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}

	if job.TargetWordCount == 0 {
		job.TargetWordCount = 2000
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return &job, nil
}

// Validate checks the job for structural problems before any work starts
func (j *Job) Validate() error {
	if j.PDFPath == "" {
		return fmt.Errorf("job: pdf_path is required")
	}
	if len(j.Sections) == 0 {
		return fmt.Errorf("job: at least one section is required")
	}

	seen := make(map[string]bool)
	for i, s := range j.Sections {
		if s.Name == "" {
			return fmt.Errorf("job: section %d has no name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("job: duplicate section name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Start < 1 {
			return fmt.Errorf("job: section %q: start page must be >= 1", s.Name)
		}
		if s.End < s.Start {
			return fmt.Errorf("job: section %q: end page %d before start page %d", s.Name, s.End, s.Start)
		}
	}

	return nil
}
