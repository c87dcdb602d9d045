// Package main is the entry point for the stockwars CLI.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"stockwars/internal/config"
	"stockwars/internal/hierarchy"
	"stockwars/internal/llm"
	"stockwars/internal/logging"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func init() {
	// Load .env for API keys and other env vars
	_ = godotenv.Load()
}

// appContext carries the wired application pieces into command Run methods.
type appContext struct {
	cfg   *config.Config
	store hierarchy.Store
	log   *logging.Logger

	closer func() error
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("stockwars"),
		kong.Description("AI trading competition: agent registry and round runner"),
		kong.UsageOnError(),
		kongVars(),
	)

	app, err := newAppContext(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if app.closer != nil {
			_ = app.closer()
		}
	}()

	if err := ctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newAppContext loads config and opens the registry store.
func newAppContext(cli *CLI) (*appContext, error) {
	cfg := config.New()
	if _, err := os.Stat(cli.Config); err == nil {
		loaded, err := config.LoadFile(cli.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cli.DB != "" {
		cfg.Store.Path = cli.DB
	}

	log := logging.New()
	if cli.Verbose {
		log.SetLevel(logging.LevelDebug)
	}

	store, err := hierarchy.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry store: %w", err)
	}

	return &appContext{
		cfg:    cfg,
		store:  store,
		log:    log,
		closer: store.Close,
	}, nil
}

// provider builds the completion client from config.
func (app *appContext) provider() llm.Provider {
	apiKey := func(provider string) string {
		return config.APIKeyFor(provider, app.cfg.LLM.APIKeyEnv)
	}
	return llm.NewFantasyClient(apiKey, app.cfg.LLM.BaseURL)
}

// Run shows version information.
func (v *VersionCmd) Run(app *appContext) error {
	fmt.Printf("stockwars version %s (commit: %s, built: %s)\n", version, commit, buildTime)
	return nil
}
