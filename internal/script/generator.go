package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/podtrace/internal/llm"
	"github.com/avolkov/podtrace/internal/model"
)

const (
	// Script drafting wants variety; analysis calls in verify use 0
	generationTemperature = 1.0
	generationMaxTokens   = 8000
)

// Generator drafts a two-host podcast script from extracted sections
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a new script generator
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate produces the draft script for the given sections
func (g *Generator) Generate(ctx context.Context, store *model.SectionStore, targetWordCount int) (string, error) {
	if store.Len() == 0 {
		return "", fmt.Errorf("no sections to generate from")
	}
	if targetWordCount <= 0 {
		targetWordCount = 2000
	}

	resp, err := g.provider.Generate(ctx, llm.GenerateRequest{
		System:      BuildSystemPrompt(targetWordCount),
		Prompt:      BuildUserPrompt(store),
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("script generation: %w", err)
	}

	script := strings.TrimSpace(resp.Text)
	if script == "" {
		return "", fmt.Errorf("script generation: provider returned empty script")
	}

	return script, nil
}

// BuildSystemPrompt constructs the system instruction for script drafting
func BuildSystemPrompt(targetWordCount int) string {
	return fmt.Sprintf(`You are an expert podcast script writer. Your task is to convert business document content into an engaging, educational two-host podcast script.

CRITICAL REQUIREMENTS:

1. LENGTH: Generate approximately %d words (~10 minutes of spoken content)

2. HOSTS:
   - Use two distinct hosts: Alex (analytical, detail-oriented) and Jordan (strategic, big-picture)
   - Each should have a consistent personality and perspective
   - Format as "ALEX:" and "JORDAN:" for speaker labels

3. CONVERSATIONAL QUALITY:
   - This must sound like REAL dialogue between two people who know each other
   - Use natural speech patterns: interruptions, agreements, building on each other's points
   - NOT alternating monologues - actual conversation with back-and-forth
   - Include verbal cues: "Wait, that's interesting because...", "Hold on...", "You know what strikes me..."

4. TEACHING STYLE:
   - The goal is substantive understanding, not surface-level summary
   - Explain WHY things matter, not just WHAT they are
   - Break down complex concepts conversationally
   - Use analogies or examples when helpful

5. FRICTION (CRITICAL):
   - Include at least ONE substantive disagreement or challenge
   - One host should push back on an interpretation or raise a concern
   - This creates engagement and shows critical thinking
   - Don't force fake conflict - make it natural skepticism or alternative perspective

6. EMOTIONAL CUES:
   - Use lightweight, professional emotional markers:
     * Curiosity: "That's fascinating..."
     * Skepticism: "I'm not sure I buy that..."
     * Surprise: "Wait, really?"
     * Concern: "That worries me a bit..."
   - Keep it professional - no over-the-top reactions

7. STRUCTURE:
   - Opening: Brief, engaging hook (not "welcome to the show")
   - Body: Work through the content with natural flow
   - Closing: Clear "so what" takeaway - why this matters

8. ACCURACY:
   - Base ALL claims on the provided source material
   - Do not invent statistics, quotes, or facts
   - If you reference something, it must be traceable to the source

OUTPUT FORMAT:
Just the script with speaker labels. No meta-commentary, no [stage directions], no intro/outro music descriptions.`, targetWordCount)
}

// BuildUserPrompt constructs the user prompt with the source content
func BuildUserPrompt(store *model.SectionStore) string {
	var b strings.Builder

	b.WriteString("Generate a podcast script based on the following source material.\n\n")
	b.WriteString("SECTIONS OVERVIEW:\n")
	for _, sec := range store.Sections() {
		fmt.Fprintf(&b, "- %s (%d words)\n", sec.Label, sec.WordCount)
	}

	b.WriteString("\nSOURCE CONTENT:\n\n")
	divider := strings.Repeat("=", 60)
	for _, sec := range store.Sections() {
		fmt.Fprintf(&b, "\n%s\nSECTION: %s\n%s\n\n", divider, sec.Label, divider)
		b.WriteString(sec.Text)
		b.WriteString("\n")
	}

	b.WriteString("\n\nNow generate the podcast script following all the requirements in your system instructions. Make it engaging, substantive, and natural.")

	return b.String()
}
