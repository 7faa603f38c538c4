package verify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/avolkov/podtrace/internal/llm"
	"github.com/avolkov/podtrace/internal/model"
)

const (
	// analysisTemperature keeps both analysis calls deterministic
	analysisTemperature = 0.0
	analysisMaxTokens   = 8000
)

// Verifier checks a generated script against its source sections. It
// runs two independent analysis calls, claim tracing and coverage, and
// reconciles whatever comes back into a single report.
type Verifier struct {
	provider   llm.Provider
	reconciler *Reconciler
}

// NewVerifier creates a verifier backed by the given provider
func NewVerifier(provider llm.Provider) *Verifier {
	return &Verifier{
		provider:   provider,
		reconciler: NewReconciler(),
	}
}

// Verify runs both analysis calls concurrently and reconciles the
// results. It returns an error only when a call itself fails; malformed
// analysis output degrades to diagnostics on the report.
func (v *Verifier) Verify(ctx context.Context, script string, store *model.SectionStore) (*model.VerificationReport, error) {
	if script == "" {
		return nil, fmt.Errorf("script is empty")
	}
	if store == nil || store.Len() == 0 {
		return nil, fmt.Errorf("no source sections to verify against")
	}

	var claimsRaw, coverageRaw []byte

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := v.provider.Generate(gctx, llm.GenerateRequest{
			System:      claimsSystemPrompt,
			Prompt:      BuildClaimsPrompt(script, store),
			Temperature: analysisTemperature,
			MaxTokens:   analysisMaxTokens,
		})
		if err != nil {
			return fmt.Errorf("claim analysis: %w", err)
		}
		claimsRaw = []byte(ExtractJSONBlock(resp.Text))
		return nil
	})

	g.Go(func() error {
		resp, err := v.provider.Generate(gctx, llm.GenerateRequest{
			System:      coverageSystemPrompt,
			Prompt:      BuildCoveragePrompt(script, store),
			Temperature: analysisTemperature,
			MaxTokens:   analysisMaxTokens,
		})
		if err != nil {
			return fmt.Errorf("coverage analysis: %w", err)
		}
		coverageRaw = []byte(ExtractJSONBlock(resp.Text))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return v.reconciler.Reconcile(claimsRaw, coverageRaw, store.Len()), nil
}
