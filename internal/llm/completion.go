package llm

import (
	"context"
	"fmt"
	"strings"

	"stockwars/internal/logging"
)

// Completer applies the bounded retry policy: one call to the primary
// model, then at most one call to a fixed fallback model. The two-step
// sequence is explicit here so the bound is visible in the control flow,
// not buried in error handling.
type Completer struct {
	provider      Provider
	fallbackModel string
	maxTokens     int
	temperature   float64
	log           *logging.Logger
}

// NewCompleter creates a completer. fallbackModel may be empty, in which
// case a failed primary call is not retried.
func NewCompleter(provider Provider, fallbackModel string, maxTokens int, temperature float64, log *logging.Logger) *Completer {
	if log == nil {
		log = logging.New()
	}
	return &Completer{
		provider:      provider,
		fallbackModel: fallbackModel,
		maxTokens:     maxTokens,
		temperature:   temperature,
		log:           log.WithComponent("llm"),
	}
}

// Complete calls the primary model and, on failure or empty output, the
// fallback model once. A failed or empty completion from both resolves to
// an error; callers route that into their own fallback paths.
func (c *Completer) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	c.log.CompletionCall(model, len(messages))
	text, err := c.provider.Complete(ctx, model, messages, c.maxTokens, c.temperature)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err == nil {
		err = fmt.Errorf("model %s returned no content", model)
	}

	if c.fallbackModel == "" || c.fallbackModel == model {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	c.log.CompletionFallback(model, c.fallbackModel, err)
	text, fbErr := c.provider.Complete(ctx, c.fallbackModel, messages, c.maxTokens, c.temperature)
	if fbErr != nil {
		return "", fmt.Errorf("completion failed on primary (%v) and fallback: %w", err, fbErr)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("fallback model %s returned no content", c.fallbackModel)
	}
	return text, nil
}
