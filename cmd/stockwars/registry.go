// Registry administration commands: seeding, prompt versions, model
// overrides.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stockwars/internal/hierarchy"
	"stockwars/internal/llm"
)

// seedFile is the YAML shape consumed by the seed command.
type seedFile struct {
	DefaultModel string      `yaml:"default_model"`
	Agents       []seedAgent `yaml:"agents"`
}

type seedAgent struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Rank     string `yaml:"rank"`
	Category string `yaml:"category"`
	Parent   string `yaml:"parent"`
	Model    string `yaml:"model"`
	Prompt   string `yaml:"prompt"`
}

// Run loads agents, prompts, and the default model from a YAML seed file.
// Existing nodes are skipped; their prompts gain a new version only when
// the seed text differs from the current active one.
func (c *SeedCmd) Run(app *appContext) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, a := range seed.Agents {
		rank := hierarchy.Rank(strings.ToLower(strings.TrimSpace(a.Rank)))
		if !rank.Valid() {
			return fmt.Errorf("agent %s: invalid rank %q", a.ID, a.Rank)
		}

		_, err := app.store.GetNode(a.ID)
		switch {
		case err == nil:
			// already registered
		case errors.Is(err, hierarchy.ErrNotFound):
			node := &hierarchy.AgentNode{
				ID:            a.ID,
				Name:          a.Name,
				Rank:          rank,
				Category:      a.Category,
				ParentID:      a.Parent,
				Active:        true,
				SortOrder:     i,
				ModelOverride: a.Model,
				CreatedAt:     time.Now().UTC(),
			}
			if err := app.store.InsertNode(node); err != nil {
				return fmt.Errorf("failed to insert agent %s: %w", a.ID, err)
			}
			fmt.Printf("registered %s (%s)\n", a.ID, rank)
		default:
			return err
		}

		if strings.TrimSpace(a.Prompt) == "" {
			continue
		}
		if active, err := app.store.GetActiveVersion(a.ID); err == nil && active.Text == a.Prompt {
			continue
		}
		v, err := app.store.InsertVersion(a.ID, a.Prompt, "seed", "seed")
		if err != nil {
			return fmt.Errorf("failed to insert prompt for %s: %w", a.ID, err)
		}
		if err := app.store.ActivateVersion(a.ID, v.Version); err != nil {
			return fmt.Errorf("failed to activate prompt for %s: %w", a.ID, err)
		}
		fmt.Printf("activated %s v%d\n", a.ID, v.Version)
	}

	if seed.DefaultModel != "" {
		if err := app.store.SetConfig(hierarchy.ConfigKeyDefaultModel, seed.DefaultModel); err != nil {
			return fmt.Errorf("failed to set default model: %w", err)
		}
		fmt.Printf("default model: %s\n", seed.DefaultModel)
	}
	return nil
}

// Run lists all registered agents.
func (c *AgentsCmd) Run(app *appContext) error {
	nodes, err := app.store.ListNodes()
	if err != nil {
		return err
	}
	for _, n := range nodes {
		override := n.ModelOverride
		if override == "" {
			override = "-"
		}
		parent := n.ParentID
		if parent == "" {
			parent = "(root)"
		}
		fmt.Printf("%-20s %-10s parent=%-20s model=%s\n", n.ID, n.Rank, parent, override)
	}
	return nil
}

// Run prints the composed prompt for an agent.
func (c *PromptCmd) Run(app *appContext) error {
	composer := hierarchy.NewComposer(app.store)
	composed, err := composer.Compose(c.Agent, c.Custom)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(composed)
	}

	for _, s := range composed.Sections {
		fmt.Printf("--- %s (%s) ---\n", s.AgentName, s.Rank)
	}
	fmt.Println()
	fmt.Println(composed.Text)
	return nil
}

// Run prints the resolved model for an agent.
func (c *ModelCmd) Run(app *appContext) error {
	resolver := hierarchy.NewModelResolver(app.store)
	model, err := resolver.ResolveModel(c.Agent)
	if err != nil {
		return err
	}
	fmt.Println(model)
	return nil
}

// Run lists prompt versions for an agent.
func (c *VersionsCmd) Run(app *appContext) error {
	versions, err := app.store.ListVersions(c.Agent)
	if err != nil {
		return err
	}
	for _, v := range versions {
		marker := " "
		if v.Active {
			marker = "*"
		}
		note := v.Note
		if note == "" {
			note = "-"
		}
		fmt.Printf("%s v%-4d %s  %s (%s)\n",
			marker, v.Version, v.CreatedAt.Format("2006-01-02 15:04"), note, v.Author)
	}
	return nil
}

// Run adds a prompt version, reading the text from a file or stdin.
func (c *NewVersionCmd) Run(app *appContext) error {
	var data []byte
	var err error
	if c.File != "" {
		data, err = os.ReadFile(c.File)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read prompt text: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("prompt text is empty")
	}

	v, err := app.store.InsertVersion(c.Agent, text, c.Note, c.Author)
	if err != nil {
		return err
	}
	fmt.Printf("created %s v%d\n", c.Agent, v.Version)

	if c.Activate {
		if err := app.store.ActivateVersion(c.Agent, v.Version); err != nil {
			return err
		}
		fmt.Printf("activated %s v%d\n", c.Agent, v.Version)
	}
	return nil
}

// Run activates a prompt version.
func (c *ActivateCmd) Run(app *appContext) error {
	if err := app.store.ActivateVersion(c.Agent, c.Version); err != nil {
		return err
	}
	fmt.Printf("activated %s v%d\n", c.Agent, c.Version)
	return nil
}

// Run sets or clears an agent's model override.
func (c *SetModelCmd) Run(app *appContext) error {
	if err := app.store.SetModelOverride(c.Agent, c.Model); err != nil {
		return err
	}
	if c.Model == "" {
		fmt.Printf("cleared model override for %s\n", c.Agent)
		return nil
	}
	fmt.Printf("set %s model to %s\n", c.Agent, c.Model)
	if warn := unknownModelWarning(context.Background(), llm.NewCatalog(), c.Model); warn != "" {
		fmt.Fprintln(os.Stderr, warn)
	}
	return nil
}

// Run sets the registry-wide default model.
func (c *SetDefaultCmd) Run(app *appContext) error {
	if err := app.store.SetConfig(hierarchy.ConfigKeyDefaultModel, c.Model); err != nil {
		return err
	}
	fmt.Printf("default model: %s\n", c.Model)
	if warn := unknownModelWarning(context.Background(), llm.NewCatalog(), c.Model); warn != "" {
		fmt.Fprintln(os.Stderr, warn)
	}
	return nil
}
