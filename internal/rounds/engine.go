// Package rounds runs trade and news rounds: prompt composition, model
// resolution, the completion call, and the validation/fallback chain.
package rounds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/trace"

	"stockwars/internal/hierarchy"
	"stockwars/internal/llm"
	"stockwars/internal/logging"
	"stockwars/internal/market"
	"stockwars/internal/response"
)

// Round kinds, used in logs and span names.
const (
	KindTrade = "trade"
	KindNews  = "news"
)

// TradeDecision is the outcome of one agent's trade round. An empty order
// list is a hold, which is how unusable model output degrades.
type TradeDecision struct {
	RoundID   string                `json:"round_id"`
	AgentID   string                `json:"agent_id"`
	Model     string                `json:"model"`
	Orders    []response.TradeOrder `json:"orders"`
	Reasoning string                `json:"reasoning,omitempty"`
	FellBack  bool                  `json:"fell_back"`
}

// NewsEvent is the outcome of a news round: a headline and a complete
// per-ticker impact table.
type NewsEvent struct {
	RoundID   string             `json:"round_id"`
	AgentID   string             `json:"agent_id"`
	Model     string             `json:"model"`
	Headline  string             `json:"headline"`
	Target    string             `json:"target_ticker"`
	Severity  response.Severity  `json:"severity"`
	Impacts   map[string]float64 `json:"impacts"`
	Synthetic bool               `json:"synthetic"`
}

// Engine orchestrates rounds over the registry, the completion layer, and
// the response validators. Hierarchy and store errors surface to the
// caller; completion and validation failures are recovered locally so a
// round never aborts because one agent's model call went wrong.
type Engine struct {
	composer  *hierarchy.Composer
	resolver  *hierarchy.ModelResolver
	completer *llm.Completer
	impacts   *response.ImpactValidator
	fallback  *response.FallbackGenerator
	log       *logging.Logger
}

// NewEngine creates a round engine.
func NewEngine(store hierarchy.Store, completer *llm.Completer, bounds response.Bounds, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.New()
	}
	return &Engine{
		composer:  hierarchy.NewComposer(store),
		resolver:  hierarchy.NewModelResolver(store),
		completer: completer,
		impacts:   response.NewImpactValidator(bounds),
		fallback:  response.NewFallbackGenerator(),
		log:       log.WithComponent("rounds"),
	}
}

// TradeRound runs a trade round for one agent: compose the prompt,
// resolve the model, call the completion layer, then extract and validate
// orders. Registry errors are returned; everything downstream of the
// completion call degrades to a hold decision.
func (e *Engine) TradeRound(ctx context.Context, agentID, customPrompt string, universe market.Universe, cash decimal.Decimal) (*TradeDecision, error) {
	start := time.Now()
	e.log.RoundStart(KindTrade, agentID)
	ctx, span := startRoundSpan(ctx, KindTrade, agentID)

	composed, model, err := e.prepare(agentID, customPrompt)
	if err != nil {
		endRoundSpan(span, model, false, err)
		return nil, err
	}

	decision := &TradeDecision{RoundID: uuid.NewString(), AgentID: agentID, Model: model}

	text, err := e.completer.Complete(ctx, model, tradeMessages(composed.Text, universe, cash))
	if err != nil {
		e.log.ValidationFallback(KindTrade, agentID, err)
		decision.FellBack = true
		e.finish(span, KindTrade, agentID, model, start, true)
		return decision, nil
	}

	payload, err := response.ExtractJSON(text, "trades")
	if err != nil {
		e.log.ValidationFallback(KindTrade, agentID, err)
		decision.FellBack = true
		e.finish(span, KindTrade, agentID, model, start, true)
		return decision, nil
	}

	decision.Orders = response.ValidateTrades(payload["trades"], universe, cash)
	if reasoning, ok := payload["reasoning"].(string); ok {
		decision.Reasoning = strings.TrimSpace(reasoning)
	}

	e.finish(span, KindTrade, agentID, model, start, false)
	return decision, nil
}

// NewsRound runs a news round: the agent invents a headline and a
// per-ticker impact table, which is validated and gap-filled. Unusable
// output routes into the deterministic fallback generator, so the round
// always yields a complete event.
func (e *Engine) NewsRound(ctx context.Context, agentID, customPrompt string, universe market.Universe) (*NewsEvent, error) {
	start := time.Now()
	e.log.RoundStart(KindNews, agentID)
	ctx, span := startRoundSpan(ctx, KindNews, agentID)

	composed, model, err := e.prepare(agentID, customPrompt)
	if err != nil {
		endRoundSpan(span, model, false, err)
		return nil, err
	}

	event := &NewsEvent{RoundID: uuid.NewString(), AgentID: agentID, Model: model, Severity: response.SeverityModerate}

	var payload map[string]any
	text, err := e.completer.Complete(ctx, model, newsMessages(composed.Text, universe))
	if err == nil {
		payload, err = response.ExtractJSON(text, "headline")
	}
	if err != nil {
		e.log.ValidationFallback(KindNews, agentID, err)
		e.synthesize(event, payload, universe)
		e.finish(span, KindNews, agentID, model, start, true)
		return event, nil
	}

	event.Headline = strings.TrimSpace(headlineOf(payload))
	event.Target = targetOf(payload)
	if s := strings.ToUpper(strings.TrimSpace(payloadString(payload, "severity"))); s != "" {
		event.Severity = response.Severity(s)
	}

	impacts, err := e.impacts.ValidateImpacts(payload, universe)
	if err != nil {
		e.log.ValidationFallback(KindNews, agentID, err)
		e.synthesize(event, payload, universe)
		e.finish(span, KindNews, agentID, model, start, true)
		return event, nil
	}

	event.Impacts = impacts
	e.finish(span, KindNews, agentID, model, start, false)
	return event, nil
}

// prepare composes the prompt and resolves the model for an agent. These
// are configuration reads; their failures surface unrecovered.
func (e *Engine) prepare(agentID, customPrompt string) (*hierarchy.Composed, string, error) {
	composed, err := e.composer.Compose(agentID, customPrompt)
	if err != nil {
		e.log.HierarchyError("compose", agentID, err)
		return nil, "", fmt.Errorf("failed to compose prompt for %s: %w", agentID, err)
	}
	model, err := e.resolver.ResolveModel(agentID)
	if err != nil {
		e.log.HierarchyError("resolve_model", agentID, err)
		return nil, "", fmt.Errorf("failed to resolve model for %s: %w", agentID, err)
	}
	return composed, model, nil
}

// synthesize fills a news event from the fallback generator, salvaging
// whatever headline and target the payload carried.
func (e *Engine) synthesize(event *NewsEvent, payload map[string]any, universe market.Universe) {
	headline := strings.TrimSpace(headlineOf(payload))
	if headline == "" {
		headline = "Markets trade mixed amid light news flow"
	}
	target := targetOf(payload)
	if !universe.Contains(target) {
		if tickers := universe.Tickers(); len(tickers) > 0 {
			target = tickers[0]
		}
	}
	event.Headline = headline
	event.Target = target
	event.Impacts = e.fallback.Generate(headline, target, universe)
	event.Synthetic = true
}

// finish closes out a round: completion log line plus span attributes.
func (e *Engine) finish(span trace.Span, kind, agentID, model string, start time.Time, fellBack bool) {
	e.log.RoundComplete(kind, agentID, time.Since(start), fellBack)
	endRoundSpan(span, model, fellBack, nil)
}

func headlineOf(payload map[string]any) string {
	return payloadString(payload, "headline")
}

func targetOf(payload map[string]any) string {
	return strings.ToUpper(strings.TrimSpace(payloadString(payload, "target_ticker", "tickerAffected")))
}

func payloadString(payload map[string]any, keys ...string) string {
	if payload == nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := payload[k].(string); ok {
			return v
		}
	}
	return ""
}

// tradeMessages builds the message sequence for a trade round: the
// composed hierarchy prompt as the system message and the market snapshot
// as the user turn.
func tradeMessages(systemPrompt string, universe market.Universe, cash decimal.Decimal) []llm.Message {
	var b strings.Builder
	b.WriteString("Current market snapshot:\n")
	for _, ticker := range universe.Tickers() {
		stock, _ := universe.Get(ticker)
		fmt.Fprintf(&b, "- %s (%s, sector %s, beta %.2f): $%s\n",
			stock.Ticker, stock.Name, stock.Sector, stock.Beta, stock.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nAvailable cash: $%s\n\n", cash.StringFixed(2))
	b.WriteString(`Decide your trades. Respond with a JSON object: {"trades": [{"action": "LONG|SHORT|CLOSE_LONG|CLOSE_SHORT", "ticker": "...", "qty": N, "reason": "..."}], "reasoning": "..."}. An empty trades array means hold.`)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

// newsMessages builds the message sequence for a news round.
func newsMessages(systemPrompt string, universe market.Universe) []llm.Message {
	var b strings.Builder
	b.WriteString("Tradeable tickers:\n")
	for _, ticker := range universe.Tickers() {
		stock, _ := universe.Get(ticker)
		fmt.Fprintf(&b, "- %s (%s, sector %s)\n", stock.Ticker, stock.Name, stock.Sector)
	}
	b.WriteString(`
Invent one market news event. Respond with a JSON object: {"headline": "...", "target_ticker": "...", "severity": "LOW|MODERATE|HIGH|EXTREME", "direction": "positive|negative", "per_stock_impacts": {"TICKER": percent, ...}}.`)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}
