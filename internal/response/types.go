// Package response turns raw model output into validated domain values.
// Model text is adversarial by nature: payloads may be wrapped in prose,
// fenced, truncated, or simply wrong, so every field is optional until
// verified.
package response

import "errors"

// Sentinel errors. Both are recoverable: callers route them into the
// documented fallback paths rather than aborting a round.
var (
	// ErrNoJSON means no usable JSON object was found in the model text.
	ErrNoJSON = errors.New("no JSON object found")
	// ErrInvalidImpact means an extracted impact payload failed domain
	// checks and the fallback generator should run.
	ErrInvalidImpact = errors.New("invalid impact payload")
)

// TradeAction is one of the four allowed order actions.
type TradeAction string

const (
	ActionLong       TradeAction = "LONG"
	ActionShort      TradeAction = "SHORT"
	ActionCloseLong  TradeAction = "CLOSE_LONG"
	ActionCloseShort TradeAction = "CLOSE_SHORT"
)

// Valid reports whether the action is one of the allowed values.
func (a TradeAction) Valid() bool {
	switch a {
	case ActionLong, ActionShort, ActionCloseLong, ActionCloseShort:
		return true
	}
	return false
}

// OpensExposure reports whether the action opens new exposure and is
// therefore subject to the affordability clamp.
func (a TradeAction) OpensExposure() bool {
	return a == ActionLong || a == ActionShort
}

// TradeOrder is a validated order extracted from a model response. Orders
// are ephemeral: constructed per response, summarized elsewhere, never
// persisted as-is.
type TradeOrder struct {
	Action   TradeAction `json:"action"`
	Ticker   string      `json:"ticker"`
	Quantity int64       `json:"qty"`
	Reason   string      `json:"reason,omitempty"`
}

// Severity is a named tier mapping to a maximum absolute percentage move.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityExtreme  Severity = "EXTREME"
)

// Bounds holds the maximum absolute percentage move per severity tier.
type Bounds struct {
	Low      float64
	Moderate float64
	High     float64
	Extreme  float64
}

// DefaultBounds returns the standard severity bounds.
func DefaultBounds() Bounds {
	return Bounds{Low: 6, Moderate: 15, High: 25, Extreme: 40}
}

// For returns the bound for a severity tier. Unknown or missing severity
// defaults to the moderate tier.
func (b Bounds) For(s Severity) float64 {
	switch s {
	case SeverityLow:
		return b.Low
	case SeverityModerate:
		return b.Moderate
	case SeverityHigh:
		return b.High
	case SeverityExtreme:
		return b.Extreme
	default:
		return b.Moderate
	}
}
