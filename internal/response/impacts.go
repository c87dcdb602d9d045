package response

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"stockwars/internal/market"
)

// noiseBand is the symmetric band for synthesized off-sector moves.
const noiseBand = 1.5

// sympathyFactor scales same-sector fill-in moves relative to the target.
const sympathyFactor = 0.8

// ImpactValidator checks and completes per-ticker impact tables extracted
// from model output. Severity bounds are fixed at construction.
type ImpactValidator struct {
	bounds Bounds
	rng    *rand.Rand
}

// NewImpactValidator creates a validator with the given severity bounds.
func NewImpactValidator(bounds Bounds) *ImpactValidator {
	return &ImpactValidator{
		bounds: bounds,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// ValidateImpacts validates an extracted news payload and returns a
// complete impact table covering every ticker in the universe, no more
// and no fewer. Missing tickers are filled in: same-sector ones get a
// beta-scaled sympathy move, the rest get small symmetric noise. Every
// value, including model-supplied ones, is clamped to the severity bound.
//
// Returns ErrInvalidImpact when the payload lacks a headline or a target
// ticker inside the universe; callers route that into the fallback
// generator.
func (v *ImpactValidator) ValidateImpacts(payload map[string]any, universe market.Universe) (map[string]float64, error) {
	headline := strings.TrimSpace(stringField(payload, "headline"))
	if headline == "" {
		return nil, fmt.Errorf("%w: missing headline", ErrInvalidImpact)
	}

	target := strings.ToUpper(strings.TrimSpace(stringField(payload, "target_ticker", "tickerAffected")))
	if !universe.Contains(target) {
		return nil, fmt.Errorf("%w: target ticker %q not in universe", ErrInvalidImpact, target)
	}

	maxAbs := v.bounds.For(Severity(strings.ToUpper(strings.TrimSpace(stringField(payload, "severity")))))

	table := impactTable(payload)
	sign := directionSign(payload, table, target)

	targetSector := universe.SectorOf(target)
	out := make(map[string]float64, len(universe))
	for _, ticker := range universe.Tickers() {
		value, present := table[ticker]
		if !present {
			// The target shares its own sector, so a table that omits the
			// subject of the news still fills it with a sign-aligned move.
			if ticker == target || (targetSector != "" && universe.SectorOf(ticker) == targetSector) {
				value = round2(sign * sympathyFactor * universe.BetaOf(ticker))
			} else {
				value = round2(v.rng.Float64()*2*noiseBand - noiseBand)
			}
		}
		out[ticker] = clamp(value, maxAbs)
	}
	return out, nil
}

// impactTable reads the per-ticker impact map from the payload. The
// legacy sector-level shape carries no per-ticker data and is ignored.
func impactTable(payload map[string]any) map[string]float64 {
	raw, ok := payload["per_stock_impacts"].(map[string]any)
	if !ok {
		return nil
	}
	table := make(map[string]float64, len(raw))
	for k, val := range raw {
		if f, ok := val.(float64); ok {
			table[strings.ToUpper(strings.TrimSpace(k))] = f
		}
	}
	return table
}

// directionSign derives the move direction: an explicit direction field
// wins, then the sign of the target's own table entry, then positive.
func directionSign(payload map[string]any, table map[string]float64, target string) float64 {
	switch d := payload["direction"].(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "negative", "down", "bearish":
			return -1
		case "positive", "up", "bullish":
			return 1
		}
	case float64:
		if d < 0 {
			return -1
		}
		return 1
	}
	if value, ok := table[target]; ok && value < 0 {
		return -1
	}
	return 1
}

func clamp(value, maxAbs float64) float64 {
	if value > maxAbs {
		return maxAbs
	}
	if value < -maxAbs {
		return -maxAbs
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
