package verify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avolkov/podtrace/internal/model"
)

// claimsSourceLimit caps how much of each section feeds the claim
// tracing call; coverage analysis always sees the full text
const claimsSourceLimit = 3000

const claimsSystemPrompt = `You are a fact-checking expert. Your task is to extract factual claims from a podcast script and trace each claim back to source material.

WHAT COUNTS AS A FACTUAL CLAIM:
- Business facts (e.g., "the company operates in 80 countries")
- Market conditions (e.g., "offshore wind demand is growing")
- Strategy statements (e.g., "they're focusing on modular turbines")
- Numbers and statistics (e.g., "revenue grew by 15%")
- Stated intentions or plans (e.g., "they plan to expand in Asia")

WHAT TO EXCLUDE:
- Host opinions or interpretations (e.g., "I think this is smart")
- Conversational banter (e.g., "That's interesting")
- Rhetorical questions
- General context-setting without specific facts

FOR EACH CLAIM:
1. Extract the exact claim (quote from script)
2. Identify which source passage(s) support it
3. Assess if it's traceable (YES/NO/PARTIAL)
4. If NOT traceable or only PARTIAL, flag as potential hallucination

OUTPUT FORMAT:
Return a JSON object with this structure:
{
  "claims": [
    {
      "claim": "exact quote from script",
      "claim_type": "business_fact|market_condition|strategy|number|intention",
      "traceable": "YES|NO|PARTIAL",
      "source_evidence": "relevant quote from source material (or null if not found)",
      "source_section": "section name where found (or null)",
      "confidence": "HIGH|MEDIUM|LOW"
    }
  ],
  "hallucinations": [
    {
      "claim": "the untraceable claim",
      "reason": "why this is flagged as potential hallucination"
    }
  ]
}`

const coverageSystemPrompt = `You are analyzing how well a podcast script covers the key information from source documents.

For each source section, assess:
1. What are the KEY POINTS in this section (2-5 main points)
2. Which key points made it into the podcast script
3. Coverage level: FULL / PARTIAL / OMITTED

Be realistic - a podcast is a summary medium. "FULL" means the main idea is conveyed even if details are omitted. "PARTIAL" means some aspect is mentioned but incomplete. "OMITTED" means the key point is not addressed at all.

OUTPUT FORMAT:
Return a JSON object:
{
  "sections": [
    {
      "section_name": "name of section",
      "key_points": [
        {
          "point": "description of key point",
          "coverage": "FULL|PARTIAL|OMITTED",
          "evidence_from_script": "quote from script showing coverage (or null if omitted)"
        }
      ],
      "overall_coverage": "FULL|PARTIAL|MINIMAL",
      "omitted_points": ["list of important omitted information"]
    }
  ]
}`

// buildSourceContext renders the source sections as a labeled block. A
// limit of 0 includes full section text.
func buildSourceContext(store *model.SectionStore, limit int) string {
	var sb strings.Builder
	sb.WriteString("SOURCE MATERIAL:\n\n")

	divider := strings.Repeat("=", 60)
	for _, section := range store.Sections() {
		text := section.Text
		truncated := false
		if limit > 0 && len(text) > limit {
			// Back off to a rune boundary so the cut never splits a
			// multi-byte character
			cut := limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
			truncated = true
		}

		sb.WriteString("\n" + divider + "\n")
		sb.WriteString("SECTION: " + section.Label + "\n")
		sb.WriteString(divider + "\n\n")
		sb.WriteString(text)
		if truncated {
			sb.WriteString("...")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildClaimsPrompt assembles the user prompt for claim tracing
func BuildClaimsPrompt(script string, store *model.SectionStore) string {
	return fmt.Sprintf(`%s

PODCAST SCRIPT TO VERIFY:

%s

Now extract all factual claims and trace them to the source material. Return ONLY the JSON output, no other text.`,
		buildSourceContext(store, claimsSourceLimit), script)
}

// BuildCoveragePrompt assembles the user prompt for coverage analysis
func BuildCoveragePrompt(script string, store *model.SectionStore) string {
	return fmt.Sprintf(`%s

PODCAST SCRIPT:

%s

Now analyze the coverage. Return ONLY the JSON output, no other text.`,
		buildSourceContext(store, 0), script)
}
