// Package market describes the stock universe a round is played over.
package market

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Stock is a single tradeable symbol with the attributes the validators
// and the fallback generator need.
type Stock struct {
	Ticker string          `json:"ticker" yaml:"ticker"`
	Name   string          `json:"name" yaml:"name"`
	Sector string          `json:"sector" yaml:"sector"`
	Beta   float64         `json:"beta" yaml:"beta"`
	Price  decimal.Decimal `json:"price" yaml:"price"`
}

// Universe is the full set of stocks in play for the current round.
type Universe []Stock

// Tickers returns all tickers in the universe, sorted for deterministic
// iteration.
func (u Universe) Tickers() []string {
	tickers := make([]string, 0, len(u))
	for _, s := range u {
		tickers = append(tickers, s.Ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// Contains reports whether the ticker is part of the universe.
func (u Universe) Contains(ticker string) bool {
	for _, s := range u {
		if s.Ticker == ticker {
			return true
		}
	}
	return false
}

// Get returns the stock for a ticker.
func (u Universe) Get(ticker string) (Stock, bool) {
	for _, s := range u {
		if s.Ticker == ticker {
			return s, true
		}
	}
	return Stock{}, false
}

// SectorOf returns the sector for a ticker, or "" when unknown.
func (u Universe) SectorOf(ticker string) string {
	if s, ok := u.Get(ticker); ok {
		return s.Sector
	}
	return ""
}

// BetaOf returns the beta for a ticker, or 1.0 when unknown.
func (u Universe) BetaOf(ticker string) float64 {
	if s, ok := u.Get(ticker); ok && s.Beta > 0 {
		return s.Beta
	}
	return 1.0
}

// PriceOf returns the current price for a ticker.
func (u Universe) PriceOf(ticker string) (decimal.Decimal, bool) {
	if s, ok := u.Get(ticker); ok {
		return s.Price, true
	}
	return decimal.Zero, false
}

// Prices returns a ticker-to-price map for the whole universe.
func (u Universe) Prices() map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(u))
	for _, s := range u {
		prices[s.Ticker] = s.Price
	}
	return prices
}
