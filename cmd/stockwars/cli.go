// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Config  string `help:"Config file path (TOML)" default:"stockwars.toml"`
	DB      string `help:"Registry database path (overrides config)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Seed       SeedCmd       `cmd:"" help:"Load agents and prompts from a YAML seed file"`
	Agents     AgentsCmd     `cmd:"" help:"List registered agents"`
	Prompt     PromptCmd     `cmd:"" help:"Show the composed prompt for an agent"`
	Model      ModelCmd      `cmd:"" help:"Show the resolved model for an agent"`
	Versions   VersionsCmd   `cmd:"" help:"List prompt versions for an agent"`
	NewVersion NewVersionCmd `cmd:"" name:"new-version" help:"Add a prompt version for an agent"`
	Activate   ActivateCmd   `cmd:"" help:"Activate a prompt version"`
	SetModel   SetModelCmd   `cmd:"" name:"set-model" help:"Set or clear an agent's model override"`
	SetDefault SetDefaultCmd `cmd:"" name:"set-default" help:"Set the registry-wide default model"`
	Models     ModelsCmd     `cmd:"" help:"List models known to the provider catalog"`
	Trade      TradeCmd      `cmd:"" help:"Run a trade round for an agent"`
	News       NewsCmd       `cmd:"" help:"Run a news round for an agent"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
}

// SeedCmd loads agents, prompts, and config from a YAML file.
type SeedCmd struct {
	File string `arg:"" help:"Seed YAML path"`
}

// AgentsCmd lists registered agents.
type AgentsCmd struct{}

// PromptCmd shows the composed prompt for an agent.
type PromptCmd struct {
	Agent  string `arg:"" help:"Agent id"`
	Custom string `help:"Custom prompt text substituted into the placeholder"`
	JSON   bool   `help:"Print sections as JSON"`
}

// ModelCmd shows the resolved model for an agent.
type ModelCmd struct {
	Agent string `arg:"" help:"Agent id"`
}

// VersionsCmd lists prompt versions for an agent.
type VersionsCmd struct {
	Agent string `arg:"" help:"Agent id"`
}

// NewVersionCmd adds a prompt version.
type NewVersionCmd struct {
	Agent    string `arg:"" help:"Agent id"`
	File     string `short:"f" help:"Read prompt text from file (default: stdin)"`
	Note     string `help:"Version note"`
	Author   string `help:"Author name"`
	Activate bool   `help:"Activate the new version immediately"`
}

// ActivateCmd activates a prompt version.
type ActivateCmd struct {
	Agent   string `arg:"" help:"Agent id"`
	Version int    `arg:"" help:"Version number"`
}

// SetModelCmd sets or clears an agent's model override.
type SetModelCmd struct {
	Agent string `arg:"" help:"Agent id"`
	Model string `arg:"" optional:"" help:"Model id (empty clears the override)"`
}

// SetDefaultCmd sets the registry-wide default model.
type SetDefaultCmd struct {
	Model string `arg:"" help:"Model id"`
}

// ModelsCmd lists models from the provider catalog.
type ModelsCmd struct {
	Provider string `arg:"" optional:"" help:"Provider id (all providers when omitted)"`
}

// TradeCmd runs a trade round for an agent.
type TradeCmd struct {
	Agent  string `arg:"" help:"Agent id"`
	Market string `short:"m" default:"market.yaml" help:"Market YAML path"`
	Cash   string `default:"100000" help:"Available cash"`
	Custom string `help:"Custom prompt text substituted into the placeholder"`
}

// NewsCmd runs a news round for an agent.
type NewsCmd struct {
	Agent  string `arg:"" help:"Agent id"`
	Market string `short:"m" default:"market.yaml" help:"Market YAML path"`
	Custom string `help:"Custom prompt text substituted into the placeholder"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
