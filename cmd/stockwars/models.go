// Model catalog command.
package main

import (
	"context"
	"fmt"

	"stockwars/internal/llm"
)

// unknownModelWarning returns a warning line when a model id is absent
// from the provider catalog, or "" when it is known. Catalog
// unavailability reads as known, so setting an override never blocks on
// the network.
func unknownModelWarning(ctx context.Context, catalog *llm.Catalog, model string) string {
	if model == "" || catalog.KnownModel(ctx, model) {
		return ""
	}
	return fmt.Sprintf("warning: model %q not found in the provider catalog", model)
}

// Run lists models from the provider catalog.
func (c *ModelsCmd) Run(app *appContext) error {
	catalog := llm.NewCatalog()
	ctx := context.Background()

	if c.Provider != "" {
		models, err := catalog.Models(ctx, c.Provider)
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Printf("%-40s %s\n", m.ID, m.Name)
		}
		return nil
	}

	providers, err := catalog.Providers(ctx)
	if err != nil {
		return err
	}
	for _, p := range providers {
		fmt.Printf("%s (%d models)\n", p.Name, len(p.Models))
		for _, m := range p.Models {
			fmt.Printf("  %-40s %s\n", m.ID, m.Name)
		}
	}
	return nil
}
