// Round commands: trade and news.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"stockwars/internal/llm"
	"stockwars/internal/market"
	"stockwars/internal/response"
	"stockwars/internal/rounds"
)

// marketFile is the YAML shape of a market snapshot. Prices are plain
// floats in the file and converted to decimals on load.
type marketFile struct {
	Stocks []struct {
		Ticker string  `yaml:"ticker"`
		Name   string  `yaml:"name"`
		Sector string  `yaml:"sector"`
		Beta   float64 `yaml:"beta"`
		Price  float64 `yaml:"price"`
	} `yaml:"stocks"`
}

// loadMarket reads a market YAML file into a universe.
func loadMarket(path string) (market.Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market file: %w", err)
	}

	var mf marketFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse market file: %w", err)
	}
	if len(mf.Stocks) == 0 {
		return nil, fmt.Errorf("market file %s lists no stocks", path)
	}

	universe := make(market.Universe, 0, len(mf.Stocks))
	for _, s := range mf.Stocks {
		universe = append(universe, market.Stock{
			Ticker: s.Ticker,
			Name:   s.Name,
			Sector: s.Sector,
			Beta:   s.Beta,
			Price:  decimal.NewFromFloat(s.Price),
		})
	}
	return universe, nil
}

// engine wires a round engine from the app context.
func (app *appContext) engine() *rounds.Engine {
	completer := llm.NewCompleter(
		app.provider(),
		app.cfg.LLM.FallbackModel,
		app.cfg.LLM.MaxTokens,
		app.cfg.LLM.Temperature,
		app.log,
	)
	bounds := response.Bounds{
		Low:      app.cfg.Impact.Low,
		Moderate: app.cfg.Impact.Moderate,
		High:     app.cfg.Impact.High,
		Extreme:  app.cfg.Impact.Extreme,
	}
	return rounds.NewEngine(app.store, completer, bounds, app.log)
}

// Run executes a trade round and prints the decision as JSON.
func (c *TradeCmd) Run(app *appContext) error {
	universe, err := loadMarket(c.Market)
	if err != nil {
		return err
	}
	cash, err := decimal.NewFromString(c.Cash)
	if err != nil {
		return fmt.Errorf("invalid cash amount %q: %w", c.Cash, err)
	}

	decision, err := app.engine().TradeRound(context.Background(), c.Agent, c.Custom, universe, cash)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(decision)
}

// Run executes a news round and prints the event as JSON.
func (c *NewsCmd) Run(app *appContext) error {
	universe, err := loadMarket(c.Market)
	if err != nil {
		return err
	}

	event, err := app.engine().NewsRound(context.Background(), c.Agent, c.Custom, universe)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(event)
}
