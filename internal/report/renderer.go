// Package report renders verification reports to Markdown and JSON and
// writes run artifacts to the output directory.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkov/podtrace/internal/model"
)

// Renderer turns a VerificationReport into its output documents.
// Rendering is pure: the same report always produces the same bytes.
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderMarkdown formats the report as readable Markdown. Sections
// appear in fixed order so reports are diffable across runs.
func (r *Renderer) RenderMarkdown(report *model.VerificationReport) string {
	var md strings.Builder

	md.WriteString("# Verification Report\n\n")

	md.WriteString("## Summary\n\n")
	fmt.Fprintf(&md, "- **Total Claims Analyzed**: %d\n", report.Summary.TotalClaims)
	fmt.Fprintf(&md, "- **Hallucinated Claims**: %d\n", report.Summary.HallucinatedClaims)
	fmt.Fprintf(&md, "- **Sections Analyzed**: %d\n\n", report.Summary.SectionsAnalyzed)

	md.WriteString("## Hallucination Flags\n\n")
	if len(report.Hallucinations) > 0 {
		for i, flag := range report.Hallucinations {
			fmt.Fprintf(&md, "### Flag %d\n\n", i+1)
			fmt.Fprintf(&md, "**Claim**: \"%s\"\n\n", flag.Statement)
			fmt.Fprintf(&md, "**Reason**: %s\n\n", flag.Reason)
		}
	} else {
		md.WriteString("*No hallucinations detected. All claims are traceable to source material.*\n\n")
	}

	md.WriteString("## Claim Traceability\n\n")
	md.WriteString("Detailed mapping of claims to source material:\n\n")
	for i, claim := range report.Claims {
		fmt.Fprintf(&md, "### Claim %d\n\n", i+1)
		fmt.Fprintf(&md, "**Statement**: \"%s\"\n\n", claim.Statement)
		fmt.Fprintf(&md, "**Type**: %s\n\n", claim.Type)
		fmt.Fprintf(&md, "**Traceable**: %s\n\n", claim.Traceable)
		fmt.Fprintf(&md, "**Confidence**: %s\n\n", claim.Confidence)

		if claim.SourceSection != "" {
			fmt.Fprintf(&md, "**Source Section**: %s\n\n", claim.SourceSection)
		}
		if claim.SourceEvidence != "" {
			fmt.Fprintf(&md, "**Source Evidence**:\n> %s\n\n", claim.SourceEvidence)
		} else {
			md.WriteString("**Source Evidence**: Not found\n\n")
		}

		md.WriteString("---\n\n")
	}

	md.WriteString("## Coverage Analysis\n\n")
	md.WriteString("Analysis of how well each source section was covered in the podcast:\n\n")
	for _, section := range report.SectionCoverages {
		fmt.Fprintf(&md, "### %s\n\n", section.SectionLabel)
		fmt.Fprintf(&md, "**Overall Coverage**: %s\n\n", section.OverallCoverage)

		md.WriteString("**Key Points**:\n\n")
		for _, point := range section.Points {
			fmt.Fprintf(&md, "%s **%s**: %s\n\n", coverageIcon(point.Coverage), point.Coverage, point.Description)
			if point.EvidenceFromScript != "" {
				fmt.Fprintf(&md, "  *Script evidence*: \"%s\"\n\n", point.EvidenceFromScript)
			}
		}

		if len(section.OmittedPoints) > 0 {
			md.WriteString("\n**Omitted Information**:\n")
			for _, omitted := range section.OmittedPoints {
				fmt.Fprintf(&md, "- %s\n", omitted)
			}
			md.WriteString("\n")
		}

		md.WriteString("---\n\n")
	}

	if len(report.Diagnostics) > 0 {
		md.WriteString("## Diagnostics\n\n")
		for _, d := range report.Diagnostics {
			fmt.Fprintf(&md, "- %s\n", d)
		}
		md.WriteString("\n")
	}

	return md.String()
}

func coverageIcon(level model.CoverageLevel) string {
	switch level {
	case model.CoverageFull:
		return "✅"
	case model.CoveragePartial:
		return "⚠️"
	case model.CoverageOmitted:
		return "❌"
	default:
		return "❓"
	}
}

// RenderJSON serializes the report with 2-space indentation
func (r *Renderer) RenderJSON(report *model.VerificationReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return data, nil
}

// Output file names within the run output directory
const (
	ScriptFileName     = "podcast_script.md"
	ReportMarkdownName = "verification_report.md"
	ReportJSONName     = "verification_report.json"
)

// WriteArtifacts writes the script and both report renderings into
// outputDir, creating it if needed. It returns the paths written.
func (r *Renderer) WriteArtifacts(outputDir, script string, report *model.VerificationReport) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	jsonData, err := r.RenderJSON(report)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{ScriptFileName, []byte(script)},
		{ReportMarkdownName, []byte(r.RenderMarkdown(report))},
		{ReportJSONName, jsonData},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(outputDir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
