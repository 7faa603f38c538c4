package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avolkov/podtrace/internal/model"
	"github.com/avolkov/podtrace/internal/pipeline"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Output.Dir = t.TempDir()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	ts := httptest.NewServer(NewServer(p, "127.0.0.1:0").Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestIndexPage(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
}

func TestIndexUnknownPath(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGenerateRejectsGet(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/generate")
	if err != nil {
		t.Fatalf("GET /generate failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestGenerateInvalidForm(t *testing.T) {
	ts := testServer(t)

	resp, err := http.PostForm(ts.URL+"/generate", map[string][]string{
		"pdf_path": {""},
		"sections": {"not a section line"},
	})
	if err != nil {
		t.Fatalf("POST /generate failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAPIRunInvalidJSON(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/run", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatalf("POST /api/run failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAPIRunInvalidJob(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/run", "application/json", strings.NewReader(`{"pdf_path": ""}`))
	if err != nil {
		t.Fatalf("POST /api/run failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestParseSectionLines(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"single", "Overview: 1-5", 1, false},
		{"multiple with blanks", "Overview: 1-5\n\nFinancials: 6-12\n", 2, false},
		{"spaces around range", "Intro :  2 - 4 ", 1, false},
		{"missing colon", "Overview 1-5", 0, true},
		{"missing dash", "Overview: 15", 0, true},
		{"non-numeric", "Overview: a-b", 0, true},
		{"empty", "\n\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSectionLines(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSectionLines() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.want {
				t.Errorf("got %d sections, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseSectionLinesValues(t *testing.T) {
	sections, err := parseSectionLines("Financial Results: 6-12")
	if err != nil {
		t.Fatalf("parseSectionLines() error = %v", err)
	}

	s := sections[0]
	if s.Name != "Financial Results" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Start != 6 || s.End != 12 {
		t.Errorf("range = %d-%d, want 6-12", s.Start, s.End)
	}
}
