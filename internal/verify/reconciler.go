package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avolkov/podtrace/internal/model"
)

// Reconciler normalizes the raw structured output of the two analysis
// calls into a well-formed VerificationReport. The upstream is a
// free-text model instructed to emit JSON, so nothing about the shape of
// the input can be trusted: every field read carries a default and no
// input, however malformed, makes reconciliation fail.
type Reconciler struct{}

// NewReconciler creates a new reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile builds a VerificationReport from the raw claims and coverage
// payloads. It never returns an error: what cannot be parsed degrades to
// diagnostics on the report, and summary counts are always derived from
// the normalized collections.
func (r *Reconciler) Reconcile(claimsRaw, coverageRaw []byte, sectionsAnalyzed int) *model.VerificationReport {
	var diags []string

	claims, flags, claimDiags := r.reconcileClaims(claimsRaw)
	diags = append(diags, claimDiags...)

	coverages, coverageDiags := r.reconcileCoverage(coverageRaw)
	diags = append(diags, coverageDiags...)

	return model.NewVerificationReport(claims, flags, coverages, sectionsAnalyzed, diags)
}

// reconcileClaims reads the "claims" and "hallucinations" sequences.
// The hallucination view is the union of explicitly flagged statements
// and claims whose verdict is NO or PARTIAL.
func (r *Reconciler) reconcileClaims(raw []byte) ([]model.Claim, []model.HallucinationFlag, []string) {
	var diags []string

	payload, diag := parseObject(raw, "claims payload")
	if diag != "" {
		diags = append(diags, diag)
		return nil, nil, diags
	}

	var claims []model.Claim
	if items, ok := asSlice(payload["claims"]); ok {
		for i, item := range items {
			m, ok := asMap(item)
			if !ok {
				diags = append(diags, fmt.Sprintf("claims payload: skipped claims[%d]: not an object", i))
				continue
			}
			claims = append(claims, model.Claim{
				Statement:      stringField(m, "claim"),
				Type:           claimType(m["claim_type"]),
				Traceable:      traceability(m["traceable"]),
				SourceSection:  stringField(m, "source_section"),
				SourceEvidence: stringField(m, "source_evidence"),
				Confidence:     confidence(m["confidence"]),
			})
		}
	} else if _, present := payload["claims"]; present {
		diags = append(diags, `claims payload: "claims" is not a list`)
	}

	var flags []model.HallucinationFlag
	flagged := make(map[string]bool)

	if items, ok := asSlice(payload["hallucinations"]); ok {
		for i, item := range items {
			m, ok := asMap(item)
			if !ok {
				diags = append(diags, fmt.Sprintf("claims payload: skipped hallucinations[%d]: not an object", i))
				continue
			}
			flag := model.HallucinationFlag{
				Statement: stringField(m, "claim"),
				Reason:    stringField(m, "reason"),
			}
			if flag.Reason == "" {
				flag.Reason = "flagged by analysis without a stated reason"
			}
			flags = append(flags, flag)
			flagged[flag.Statement] = true
		}
	} else if _, present := payload["hallucinations"]; present {
		diags = append(diags, `claims payload: "hallucinations" is not a list`)
	}

	// Claims with an untraceable verdict join the hallucination view even
	// when the model did not flag them explicitly
	for _, c := range claims {
		if c.IsHallucination() && !flagged[c.Statement] {
			flags = append(flags, model.HallucinationFlag{
				Statement: c.Statement,
				Reason:    fmt.Sprintf("claim marked %s by traceability analysis", c.Traceable),
			})
			flagged[c.Statement] = true
		}
	}

	return claims, flags, diags
}

// reconcileCoverage reads the "sections" sequence
func (r *Reconciler) reconcileCoverage(raw []byte) ([]model.SectionCoverage, []string) {
	var diags []string

	payload, diag := parseObject(raw, "coverage payload")
	if diag != "" {
		diags = append(diags, diag)
		return nil, diags
	}

	var coverages []model.SectionCoverage
	if items, ok := asSlice(payload["sections"]); ok {
		for i, item := range items {
			m, ok := asMap(item)
			if !ok {
				diags = append(diags, fmt.Sprintf("coverage payload: skipped sections[%d]: not an object", i))
				continue
			}

			sc := model.SectionCoverage{
				SectionLabel:    stringField(m, "section_name"),
				OverallCoverage: overallCoverage(m["overall_coverage"]),
			}
			if sc.SectionLabel == "" {
				sc.SectionLabel = "Unknown Section"
			}

			if points, ok := asSlice(m["key_points"]); ok {
				for j, p := range points {
					pm, ok := asMap(p)
					if !ok {
						diags = append(diags, fmt.Sprintf("coverage payload: skipped sections[%d].key_points[%d]: not an object", i, j))
						continue
					}
					sc.Points = append(sc.Points, model.CoveragePoint{
						Description:        stringField(pm, "point"),
						Coverage:           coverageLevel(pm["coverage"]),
						EvidenceFromScript: stringField(pm, "evidence_from_script"),
					})
				}
			}

			if omitted, ok := asSlice(m["omitted_points"]); ok {
				for _, o := range omitted {
					if s, ok := o.(string); ok {
						sc.OmittedPoints = append(sc.OmittedPoints, s)
					}
				}
			}

			coverages = append(coverages, sc)
		}
	} else if _, present := payload["sections"]; present {
		diags = append(diags, `coverage payload: "sections" is not a list`)
	}

	return coverages, diags
}

// parseObject decodes raw JSON into a map, reporting a diagnostic rather
// than an error when the payload is empty, invalid, or not an object
func parseObject(raw []byte, label string) (map[string]any, string) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Sprintf("%s: empty", label)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Sprintf("%s: invalid JSON: %v", label, err)
	}

	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Sprintf("%s: not a JSON object", label)
	}

	return m, ""
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// stringField reads a string field, returning "" when absent, null, or
// of the wrong type
func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// claimType falls back to business_fact when unreadable; an unknown but
// readable category passes through so the report shows what the model said
func claimType(v any) model.ClaimType {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return model.ClaimTypeBusinessFact
	}
	return model.ClaimType(strings.ToLower(strings.TrimSpace(s)))
}

// traceability defaults to NO when unreadable: an unverifiable verdict
// must not count as traced
func traceability(v any) model.Traceability {
	s, ok := v.(string)
	if !ok {
		return model.TraceableNo
	}
	switch model.Traceability(strings.ToUpper(strings.TrimSpace(s))) {
	case model.TraceableYes:
		return model.TraceableYes
	case model.TraceablePartial:
		return model.TraceablePartial
	default:
		return model.TraceableNo
	}
}

// confidence defaults to LOW when unreadable
func confidence(v any) model.Confidence {
	s, ok := v.(string)
	if !ok {
		return model.ConfidenceLow
	}
	switch model.Confidence(strings.ToUpper(strings.TrimSpace(s))) {
	case model.ConfidenceHigh:
		return model.ConfidenceHigh
	case model.ConfidenceMedium:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// coverageLevel defaults to OMITTED when unreadable
func coverageLevel(v any) model.CoverageLevel {
	s, ok := v.(string)
	if !ok {
		return model.CoverageOmitted
	}
	switch model.CoverageLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case model.CoverageFull:
		return model.CoverageFull
	case model.CoveragePartial:
		return model.CoveragePartial
	default:
		return model.CoverageOmitted
	}
}

// overallCoverage defaults to MINIMAL when unreadable
func overallCoverage(v any) model.OverallCoverage {
	s, ok := v.(string)
	if !ok {
		return model.OverallMinimal
	}
	switch model.OverallCoverage(strings.ToUpper(strings.TrimSpace(s))) {
	case model.OverallFull:
		return model.OverallFull
	case model.OverallPartial:
		return model.OverallPartial
	default:
		return model.OverallMinimal
	}
}

// ExtractJSONBlock pulls the JSON body out of a model response that may
// wrap it in a markdown code fence
func ExtractJSONBlock(text string) string {
	if idx := strings.Index(text, "```json"); idx != -1 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	if idx := strings.Index(text, "```"); idx != -1 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	return strings.TrimSpace(text)
}
