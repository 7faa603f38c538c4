package model

// Claim is one factual statement extracted from the generated script,
// annotated with its traceability to the source material
type Claim struct {
	Statement      string       `json:"claim"`                     // Verbatim quote from the script
	Type           ClaimType    `json:"claim_type"`                // Category of the claim
	Traceable      Traceability `json:"traceable"`                 // YES/NO/PARTIAL
	SourceSection  string       `json:"source_section,omitempty"`  // Section label where evidence was found
	SourceEvidence string       `json:"source_evidence,omitempty"` // Supporting quote from the source
	Confidence     Confidence   `json:"confidence"`                // HIGH/MEDIUM/LOW
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeBusinessFact    ClaimType = "business_fact"    // Operational facts about the business
	ClaimTypeMarketCondition ClaimType = "market_condition" // Statements about the market environment
	ClaimTypeStrategy        ClaimType = "strategy"         // Strategy statements
	ClaimTypeNumber          ClaimType = "number"           // Numbers and statistics
	ClaimTypeIntention       ClaimType = "intention"        // Stated plans or intentions
)

// Traceability is the verdict on whether a claim maps back to the source
type Traceability string

const (
	TraceableYes     Traceability = "YES"
	TraceableNo      Traceability = "NO"
	TraceablePartial Traceability = "PARTIAL"
)

// Confidence indicates how sure the analysis is about the verdict
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// HallucinationFlag marks a claim that could not be traced to the source
type HallucinationFlag struct {
	Statement string `json:"claim"`  // The untraceable claim
	Reason    string `json:"reason"` // Why it was flagged
}

// IsHallucination reports whether the claim's verdict makes it a
// hallucination candidate
func (c Claim) IsHallucination() bool {
	return c.Traceable == TraceableNo || c.Traceable == TraceablePartial
}
