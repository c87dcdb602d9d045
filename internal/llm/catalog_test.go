package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"charm.land/catwalk/pkg/catwalk"
)

func testProviders() []catwalk.Provider {
	return []catwalk.Provider{
		{
			ID:   "anthropic",
			Name: "Anthropic",
			Models: []catwalk.Model{
				{ID: "claude-sonnet-4-5", Name: "Claude Sonnet 4.5"},
				{ID: "claude-haiku-4-5", Name: "Claude Haiku 4.5"},
			},
		},
		{
			ID:     "openai",
			Name:   "OpenAI",
			Models: []catwalk.Model{{ID: "gpt-5", Name: "GPT-5"}},
		},
	}
}

func TestCatalog_FetchesOnceWithinTTL(t *testing.T) {
	fetches := 0
	c := NewCatalogWithFetch(time.Hour, func(ctx context.Context) ([]catwalk.Provider, error) {
		fetches++
		return testProviders(), nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		providers, err := c.Providers(ctx)
		if err != nil {
			t.Fatalf("providers error: %v", err)
		}
		if len(providers) != 2 {
			t.Fatalf("expected 2 providers, got %d", len(providers))
		}
	}
	if fetches != 1 {
		t.Errorf("expected 1 fetch, got %d", fetches)
	}
}

func TestCatalog_InvalidateForcesRefetch(t *testing.T) {
	fetches := 0
	c := NewCatalogWithFetch(time.Hour, func(ctx context.Context) ([]catwalk.Provider, error) {
		fetches++
		return testProviders(), nil
	})

	ctx := context.Background()
	c.Providers(ctx)
	c.Invalidate()
	c.Providers(ctx)

	if fetches != 2 {
		t.Errorf("expected 2 fetches after invalidate, got %d", fetches)
	}
}

func TestCatalog_Models(t *testing.T) {
	c := NewCatalogWithFetch(time.Hour, func(ctx context.Context) ([]catwalk.Provider, error) {
		return testProviders(), nil
	})

	models, err := c.Models(context.Background(), "anthropic")
	if err != nil {
		t.Fatalf("models error: %v", err)
	}
	if len(models) != 2 {
		t.Errorf("expected 2 models, got %d", len(models))
	}

	if _, err := c.Models(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestCatalog_KnownModel(t *testing.T) {
	c := NewCatalogWithFetch(time.Hour, func(ctx context.Context) ([]catwalk.Provider, error) {
		return testProviders(), nil
	})

	ctx := context.Background()
	if !c.KnownModel(ctx, "gpt-5") {
		t.Error("expected gpt-5 to be known")
	}
	if c.KnownModel(ctx, "made-up-model") {
		t.Error("expected made-up model to be unknown")
	}
}

func TestCatalog_UnavailableCatalogAllowsAnyModel(t *testing.T) {
	c := NewCatalogWithFetch(time.Hour, func(ctx context.Context) ([]catwalk.Provider, error) {
		return nil, fmt.Errorf("network down")
	})

	if !c.KnownModel(context.Background(), "brand-new-model") {
		t.Error("catalog unavailability must not block model resolution")
	}
}

func TestInferProviderFromModel(t *testing.T) {
	cases := []struct {
		model string
		want  string
	}{
		{"claude-sonnet-4-5", "anthropic"},
		{"gpt-5", "openai"},
		{"o3-mini", "openai"},
		{"gemini-2.5-pro", "google"},
		{"llama-3.3-70b", "groq"},
		{"mixtral-8x7b", "groq"},
		{"totally-unknown", ""},
	}
	for _, c := range cases {
		if got := InferProviderFromModel(c.model); got != c.want {
			t.Errorf("InferProviderFromModel(%q) = %q, want %q", c.model, got, c.want)
		}
	}
}
