package model

// CoverageLevel is the per-point coverage verdict
type CoverageLevel string

const (
	CoverageFull    CoverageLevel = "FULL"
	CoveragePartial CoverageLevel = "PARTIAL"
	CoverageOmitted CoverageLevel = "OMITTED"
)

// OverallCoverage is the per-section coverage verdict
type OverallCoverage string

const (
	OverallFull    OverallCoverage = "FULL"
	OverallPartial OverallCoverage = "PARTIAL"
	OverallMinimal OverallCoverage = "MINIMAL"
)

// CoveragePoint is one key point from a source section and whether the
// script conveys it
type CoveragePoint struct {
	Description        string        `json:"point"`                         // Natural-language description of the key point
	Coverage           CoverageLevel `json:"coverage"`                      // FULL/PARTIAL/OMITTED
	EvidenceFromScript string        `json:"evidence_from_script,omitempty"` // Quote from the script showing coverage
}

// SectionCoverage aggregates coverage of one source section.
// SectionLabel should match a Section label; unmatched labels are
// tolerated and rendered as given.
type SectionCoverage struct {
	SectionLabel    string          `json:"section_name"`
	Points          []CoveragePoint `json:"key_points"`
	OverallCoverage OverallCoverage `json:"overall_coverage"`
	OmittedPoints   []string        `json:"omitted_points,omitempty"`
}
