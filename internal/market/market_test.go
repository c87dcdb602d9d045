package market

import (
	"testing"

	"github.com/shopspring/decimal"
)

func sampleUniverse() Universe {
	return Universe{
		{Ticker: "BBB", Name: "Beta Inc", Sector: "tech", Beta: 1.2, Price: decimal.NewFromInt(50)},
		{Ticker: "AAA", Name: "Alpha Corp", Sector: "tech", Beta: 1.1, Price: decimal.NewFromInt(100)},
		{Ticker: "CCC", Name: "Gamma Oil", Sector: "energy", Price: decimal.NewFromInt(20)},
	}
}

func TestUniverse_TickersSorted(t *testing.T) {
	tickers := sampleUniverse().Tickers()
	want := []string{"AAA", "BBB", "CCC"}
	for i := range want {
		if tickers[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tickers)
		}
	}
}

func TestUniverse_Lookups(t *testing.T) {
	u := sampleUniverse()

	if !u.Contains("AAA") || u.Contains("ZZZ") {
		t.Error("unexpected Contains results")
	}
	if u.SectorOf("CCC") != "energy" {
		t.Errorf("expected energy, got %s", u.SectorOf("CCC"))
	}
	if u.SectorOf("ZZZ") != "" {
		t.Errorf("expected empty sector for unknown ticker")
	}
	if u.BetaOf("BBB") != 1.2 {
		t.Errorf("expected beta 1.2, got %v", u.BetaOf("BBB"))
	}
	// Zero beta reads as 1.0, as does an unknown ticker.
	if u.BetaOf("CCC") != 1.0 || u.BetaOf("ZZZ") != 1.0 {
		t.Error("expected default beta 1.0")
	}
}

func TestUniverse_Prices(t *testing.T) {
	u := sampleUniverse()

	p, ok := u.PriceOf("AAA")
	if !ok || !p.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected price: %v (%v)", p, ok)
	}
	if _, ok := u.PriceOf("ZZZ"); ok {
		t.Error("expected no price for unknown ticker")
	}

	prices := u.Prices()
	if len(prices) != 3 || !prices["BBB"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("unexpected price map: %v", prices)
	}
}
