package response

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"stockwars/internal/market"
)

// ValidateTrades filters a raw "trades" payload into executable orders.
// Invalid entries are dropped silently so a partially-valid batch degrades
// gracefully instead of failing atomically. The result may be empty; an
// empty batch is a hold, not an error.
//
// Orders that open new exposure are capped so qty * price <= cash. Each
// order is capped independently; netting sibling orders against each
// other is the match engine's job, not ours.
func ValidateTrades(raw any, universe market.Universe, cash decimal.Decimal) []TradeOrder {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}

	var orders []TradeOrder
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}

		action := TradeAction(strings.ToUpper(strings.TrimSpace(stringField(entry, "action"))))
		if !action.Valid() {
			continue
		}

		ticker := strings.ToUpper(strings.TrimSpace(stringField(entry, "ticker")))
		if !universe.Contains(ticker) {
			continue
		}

		qtyRaw, ok := numberField(entry, "qty", "quantity")
		if !ok || qtyRaw <= 0 {
			continue
		}
		// int64(qtyRaw) is undefined for values beyond the int64 range;
		// saturate first so an absurd request clamps instead of vanishing.
		var qty int64
		if qtyRaw >= float64(math.MaxInt64) {
			qty = math.MaxInt64
		} else {
			qty = int64(qtyRaw) // floor
		}

		if action.OpensExposure() {
			price, ok := universe.PriceOf(ticker)
			if !ok || price.IsZero() || price.IsNegative() {
				continue
			}
			maxQty := cash.Div(price).IntPart()
			if qty > maxQty {
				qty = maxQty
			}
		}
		if qty <= 0 {
			continue
		}

		orders = append(orders, TradeOrder{
			Action:   action,
			Ticker:   ticker,
			Quantity: qty,
			Reason:   strings.TrimSpace(stringField(entry, "reason")),
		})
	}
	return orders
}

// stringField returns the first named field that holds a string.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			return v
		}
	}
	return ""
}

// numberField returns the first named field that holds a number. JSON
// numbers decode as float64; numeric strings from repaired payloads are
// not accepted.
func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}
