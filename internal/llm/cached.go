package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avolkov/podtrace/internal/cache"
)

// CachedProvider wraps a Provider with response caching. Identical
// generation requests against the same model hit the cache instead of the
// provider, which matters when re-running verification on an unchanged
// script.
type CachedProvider struct {
	inner Provider
	store cache.Cache
	model string
	ttl   time.Duration
}

// NewCachedProvider wraps a provider with a cache. model is the
// provider's configured default model, used to key requests that do not
// carry a model override of their own.
func NewCachedProvider(inner Provider, store cache.Cache, model string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		store: store,
		model: model,
		ttl:   ttl,
	}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Generate returns a cached response when one exists, otherwise calls
// the wrapped provider and caches the result
func (p *CachedProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	// Key on the model that will actually serve the request. Most call
	// sites leave req.Model empty and rely on the provider's default.
	model := req.Model
	if model == "" {
		model = p.model
	}
	key := cache.RequestKey(p.inner.Name(), model, req.System, req.Prompt)

	if data, found := p.store.Get(key); found {
		var resp GenerateResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, nil
		}
		// Corrupt entry: drop it and fall through to the provider
		_ = p.store.Delete(key)
	}

	resp, err := p.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := p.store.Set(key, data, p.ttl); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache LLM response: %v\n", err)
		}
	}

	return resp, nil
}

// Waiter gates a call against a rate limit. Satisfied by worker.Limiter.
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// RateLimitedProvider wraps a Provider with per-provider rate limiting
type RateLimitedProvider struct {
	inner   Provider
	limiter Waiter
}

// NewRateLimitedProvider wraps a provider with a rate limiter
func NewRateLimitedProvider(inner Provider, limiter Waiter) *RateLimitedProvider {
	return &RateLimitedProvider{
		inner:   inner,
		limiter: limiter,
	}
}

// Name returns the wrapped provider's name
func (p *RateLimitedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (p *RateLimitedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Generate waits for rate limit clearance, then calls the wrapped provider
func (p *RateLimitedProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := p.limiter.Wait(ctx, p.inner.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return p.inner.Generate(ctx, req)
}
