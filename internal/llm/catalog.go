package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"charm.land/catwalk/pkg/catwalk"
)

// defaultCatalogTTL is how long a fetched model listing stays valid.
const defaultCatalogTTL = 15 * time.Minute

// Catalog caches the catwalk model listing. It populates on first use,
// expires after a validity window, and can be invalidated explicitly. It
// is process-wide shared state and lives outside the pure request path.
type Catalog struct {
	mu       sync.RWMutex
	cached   []catwalk.Provider
	fetched  time.Time
	ttl      time.Duration
	fetch    func(ctx context.Context) ([]catwalk.Provider, error)
}

// NewCatalog creates a catalog backed by catwalk with the default TTL.
func NewCatalog() *Catalog {
	client := catwalk.New()
	return &Catalog{
		ttl: defaultCatalogTTL,
		fetch: func(ctx context.Context) ([]catwalk.Provider, error) {
			return client.GetProviders(ctx, "")
		},
	}
}

// NewCatalogWithFetch creates a catalog with a custom fetch function and
// TTL, used by tests.
func NewCatalogWithFetch(ttl time.Duration, fetch func(ctx context.Context) ([]catwalk.Provider, error)) *Catalog {
	return &Catalog{ttl: ttl, fetch: fetch}
}

// Providers returns the cached provider listing, fetching on miss or
// after expiry.
func (c *Catalog) Providers(ctx context.Context) ([]catwalk.Provider, error) {
	c.mu.RLock()
	if c.cached != nil && time.Since(c.fetched) < c.ttl {
		defer c.mu.RUnlock()
		return c.cached, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.cached != nil && time.Since(c.fetched) < c.ttl {
		return c.cached, nil
	}

	providers, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model catalog: %w", err)
	}

	c.cached = providers
	c.fetched = time.Now()
	return providers, nil
}

// Models returns all models for a specific provider.
func (c *Catalog) Models(ctx context.Context, providerID string) ([]catwalk.Model, error) {
	providers, err := c.Providers(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range providers {
		if string(p.ID) == providerID {
			return p.Models, nil
		}
	}

	return nil, fmt.Errorf("provider %q not found", providerID)
}

// KnownModel reports whether a model id appears in the catalog. Catalog
// unavailability is treated as unknown-but-allowed, so a registry override
// for a brand-new model still resolves.
func (c *Catalog) KnownModel(ctx context.Context, modelID string) bool {
	providers, err := c.Providers(ctx)
	if err != nil {
		return true
	}

	for _, p := range providers {
		for _, m := range p.Models {
			if m.ID == modelID {
				return true
			}
		}
	}
	return false
}

// Invalidate drops the cached listing; the next read refetches.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.fetched = time.Time{}
}
