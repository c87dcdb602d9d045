package response

import (
	"math"
	"math/rand"
	"strings"

	"stockwars/internal/market"
)

// Sentiment keyword sets for the synthetic impact generator. Matching is
// substring-based on the lower-cased headline, so "surges" matches
// "surge".
var (
	positiveKeywords = []string{
		"surge", "soar", "rally", "gain", "jump", "rise", "boost",
		"record", "beat", "breakthrough", "growth", "profit", "upgrade",
		"strong", "success", "win", "expand", "approval",
	}
	negativeKeywords = []string{
		"crash", "plunge", "fall", "drop", "slump", "loss", "decline",
		"layoff", "lawsuit", "scandal", "recall", "downgrade", "fraud",
		"weak", "miss", "bankrupt", "cut", "investigation",
	}
)

// sympathyCap limits synthetic same-sector moves regardless of beta.
const sympathyCap = 3.5

// FallbackGenerator produces a complete synthetic impact table when the
// model output is unusable. It is the terminal fallback and never fails.
type FallbackGenerator struct {
	rng *rand.Rand
}

// NewFallbackGenerator creates a generator with its own jitter source.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// Generate builds an impact table from headline sentiment alone. The
// target gets the largest move, same-sector tickers get a beta-scaled
// sympathy move in the same direction, and everything else gets small
// symmetric jitter, the only randomized term. Every ticker in the
// universe appears in the result exactly once.
func (g *FallbackGenerator) Generate(headline, target string, universe market.Universe) map[string]float64 {
	sign, strength := scoreSentiment(headline)
	targetMove := round2(sign * (4.0 + 0.9*strength))

	target = strings.ToUpper(strings.TrimSpace(target))
	targetSector := universe.SectorOf(target)

	out := make(map[string]float64, len(universe))
	for _, ticker := range universe.Tickers() {
		switch {
		case ticker == target:
			out[ticker] = targetMove
		case targetSector != "" && universe.SectorOf(ticker) == targetSector:
			move := sign * sympathyFactor * universe.BetaOf(ticker)
			if math.Abs(move) > sympathyCap {
				move = sign * sympathyCap
			}
			out[ticker] = round2(move)
		default:
			out[ticker] = round2(g.rng.Float64()*2*noiseBand - noiseBand)
		}
	}
	return out
}

// scoreSentiment counts keyword hits in the lower-cased headline and
// returns the direction sign and a capped strength term. A tied or empty
// count reads as positive.
func scoreSentiment(headline string) (sign, strength float64) {
	lower := strings.ToLower(headline)
	net := 0
	for _, kw := range positiveKeywords {
		net += strings.Count(lower, kw)
	}
	for _, kw := range negativeKeywords {
		net -= strings.Count(lower, kw)
	}

	sign = 1
	if net < 0 {
		sign = -1
	}
	return sign, math.Min(math.Abs(float64(net)), 5)
}
