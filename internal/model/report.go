package model

// VerificationReport is the aggregate result of verifying one script
// against its source sections. It is never mutated after construction;
// the renderer consumes it read-only.
type VerificationReport struct {
	Claims           []Claim             `json:"claim_traceability"`
	Hallucinations   []HallucinationFlag `json:"hallucination_flags"`
	SectionCoverages []SectionCoverage   `json:"coverage_analysis"`
	Summary          ReportSummary       `json:"summary"`

	// Diagnostics carries soft warnings from the reconciler (malformed
	// payloads, skipped elements). Never fatal.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// ReportSummary holds derived counts. Always recomputed from the
// normalized collections, never read from untrusted input.
type ReportSummary struct {
	TotalClaims        int `json:"total_claims"`
	HallucinatedClaims int `json:"hallucinated_claims"`
	SectionsAnalyzed   int `json:"sections_analyzed"`
}

// NewVerificationReport assembles a report and derives its summary counts
func NewVerificationReport(claims []Claim, hallucinations []HallucinationFlag, coverages []SectionCoverage, sectionsAnalyzed int, diagnostics []string) *VerificationReport {
	if claims == nil {
		claims = []Claim{}
	}
	if hallucinations == nil {
		hallucinations = []HallucinationFlag{}
	}
	if coverages == nil {
		coverages = []SectionCoverage{}
	}

	return &VerificationReport{
		Claims:           claims,
		Hallucinations:   hallucinations,
		SectionCoverages: coverages,
		Summary: ReportSummary{
			TotalClaims:        len(claims),
			HallucinatedClaims: len(hallucinations),
			SectionsAnalyzed:   sectionsAnalyzed,
		},
		Diagnostics: diagnostics,
	}
}
