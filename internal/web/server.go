// Package web exposes the pipeline over HTTP: a small form UI for
// interactive runs and a JSON endpoint for automation.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/podtrace/internal/model"
	"github.com/avolkov/podtrace/internal/pipeline"
	"github.com/avolkov/podtrace/internal/report"
)

// Server wraps a pipeline behind an HTTP interface
type Server struct {
	pipeline   *pipeline.Pipeline
	httpServer *http.Server
}

// runTimeout bounds one pipeline run triggered over HTTP
const runTimeout = 15 * time.Minute

// NewServer creates an HTTP server around the given pipeline
func NewServer(p *pipeline.Pipeline, listenAddr string) *Server {
	s := &Server{pipeline: p}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/api/run", s.handleAPIRun)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         listenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: runTimeout,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>podtrace</title></head>
<body>
<h1>podtrace</h1>
<p>Generate a two-host podcast script from a PDF and verify it against the source.</p>
<form method="POST" action="/generate">
  <p><label>PDF path: <input type="text" name="pdf_path" size="60" required></label></p>
  <p><label>Sections (one per line, as <code>Name: start-end</code>):<br>
  <textarea name="sections" rows="6" cols="60" required></textarea></label></p>
  <p><label>Target word count: <input type="number" name="target_words" value="2000"></label></p>
  <p><input type="submit" value="Generate and verify"></p>
</form>
</body>
</html>
`))

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><title>podtrace result</title></head>
<body>
<h1>Run complete</h1>
<p>{{.Summary.TotalClaims}} claims analyzed, {{.Summary.HallucinatedClaims}} flagged, {{.Summary.SectionsAnalyzed}} sections.</p>
<h2>Podcast script</h2>
<pre>{{.Script}}</pre>
<h2>Verification report</h2>
<pre>{{.ReportMarkdown}}</pre>
<p><a href="/">Run another</a></p>
</body>
</html>
`))

type resultView struct {
	Summary        model.ReportSummary
	Script         string
	ReportMarkdown string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, nil)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	job, err := jobFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()

	result, err := s.pipeline.Run(ctx, job)
	if err != nil {
		http.Error(w, fmt.Sprintf("run failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = resultTemplate.Execute(w, resultView{
		Summary:        result.Report.Summary,
		Script:         result.Script,
		ReportMarkdown: report.NewRenderer().RenderMarkdown(result.Report),
	})
}

// handleAPIRun accepts a job as JSON and returns the verification report
func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var job model.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, fmt.Sprintf("invalid job: %v", err), http.StatusBadRequest)
		return
	}
	if job.TargetWordCount == 0 {
		job.TargetWordCount = 2000
	}
	if err := job.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()

	result, err := s.pipeline.Run(ctx, &job)
	if err != nil {
		http.Error(w, fmt.Sprintf("run failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result.Report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// jobFromForm builds a job from the HTML form fields
func jobFromForm(r *http.Request) (*model.Job, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	job := &model.Job{
		PDFPath:         strings.TrimSpace(r.FormValue("pdf_path")),
		TargetWordCount: 2000,
	}

	if v := strings.TrimSpace(r.FormValue("target_words")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid target word count %q", v)
		}
		job.TargetWordCount = n
	}

	sections, err := parseSectionLines(r.FormValue("sections"))
	if err != nil {
		return nil, err
	}
	job.Sections = sections

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// parseSectionLines parses lines of the form "Name: start-end"
func parseSectionLines(input string) ([]model.SectionRange, error) {
	var sections []model.SectionRange

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, pages, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid section line %q, expected \"Name: start-end\"", line)
		}

		startStr, endStr, ok := strings.Cut(strings.TrimSpace(pages), "-")
		if !ok {
			return nil, fmt.Errorf("invalid page range in %q, expected \"start-end\"", line)
		}

		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			return nil, fmt.Errorf("invalid start page in %q", line)
		}
		end, err := strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			return nil, fmt.Errorf("invalid end page in %q", line)
		}

		sections = append(sections, model.SectionRange{
			Name:  strings.TrimSpace(name),
			Start: start,
			End:   end,
		})
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("no sections given")
	}

	return sections, nil
}
