package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"charm.land/catwalk/pkg/catwalk"

	"stockwars/internal/llm"
)

func stubCatalog(providers []catwalk.Provider, err error) *llm.Catalog {
	return llm.NewCatalogWithFetch(time.Hour, func(ctx context.Context) ([]catwalk.Provider, error) {
		return providers, err
	})
}

func TestUnknownModelWarning(t *testing.T) {
	catalog := stubCatalog([]catwalk.Provider{
		{ID: "anthropic", Models: []catwalk.Model{{ID: "claude-sonnet-4-5"}}},
	}, nil)
	ctx := context.Background()

	if warn := unknownModelWarning(ctx, catalog, "claude-sonnet-4-5"); warn != "" {
		t.Errorf("expected no warning for a cataloged model, got %q", warn)
	}
	warn := unknownModelWarning(ctx, catalog, "made-up-model")
	if !strings.Contains(warn, "made-up-model") {
		t.Errorf("expected warning naming the model, got %q", warn)
	}
	if warn := unknownModelWarning(ctx, catalog, ""); warn != "" {
		t.Errorf("expected no warning for empty model, got %q", warn)
	}
}

func TestUnknownModelWarning_CatalogUnavailable(t *testing.T) {
	catalog := stubCatalog(nil, fmt.Errorf("network down"))

	if warn := unknownModelWarning(context.Background(), catalog, "anything"); warn != "" {
		t.Errorf("catalog unavailability must not produce a warning, got %q", warn)
	}
}
