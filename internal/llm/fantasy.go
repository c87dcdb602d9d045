package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/google"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openaicompat"
)

// FantasyClient implements Provider on top of fantasy's language-model
// providers. Providers are constructed lazily per provider name and cached
// for the client's lifetime.
type FantasyClient struct {
	mu        sync.Mutex
	providers map[string]fantasy.Provider
	apiKey    func(provider string) string
	baseURL   string
}

// NewFantasyClient creates a client. apiKey maps a provider name to its
// key; baseURL, when set, routes every provider through an
// OpenAI-compatible endpoint.
func NewFantasyClient(apiKey func(provider string) string, baseURL string) *FantasyClient {
	return &FantasyClient{
		providers: make(map[string]fantasy.Provider),
		apiKey:    apiKey,
		baseURL:   baseURL,
	}
}

// Complete sends the messages to the given model and returns the
// assistant's text.
func (c *FantasyClient) Complete(ctx context.Context, model string, messages []Message, maxTokens int, temperature float64) (string, error) {
	providerName := InferProviderFromModel(model)
	if providerName == "" {
		return "", fmt.Errorf("cannot determine provider for model %q", model)
	}

	provider, err := c.providerFor(providerName)
	if err != nil {
		return "", err
	}

	lm, err := provider.LanguageModel(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to get model %s: %w", model, err)
	}

	var prompt fantasy.Prompt
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			prompt = append(prompt, fantasy.NewSystemMessage(m.Content))
		case RoleUser:
			prompt = append(prompt, fantasy.NewUserMessage(m.Content))
		case RoleAssistant:
			prompt = append(prompt, fantasy.Message{
				Role:    fantasy.MessageRoleAssistant,
				Content: []fantasy.MessagePart{fantasy.TextPart{Text: m.Content}},
			})
		default:
			continue
		}
	}

	mt := int64(maxTokens)
	call := fantasy.Call{
		Prompt:          prompt,
		MaxOutputTokens: &mt,
		Temperature:     &temperature,
	}

	resp, err := lm.Generate(ctx, call)
	if err != nil {
		return "", fmt.Errorf("fantasy generate failed: %w", err)
	}

	var text strings.Builder
	for _, content := range resp.Content {
		switch v := content.(type) {
		case *fantasy.TextContent:
			text.WriteString(v.Text)
		case fantasy.TextContent:
			text.WriteString(v.Text)
		}
	}
	return text.String(), nil
}

// providerFor returns (or creates) the fantasy provider for a name.
func (c *FantasyClient) providerFor(name string) (fantasy.Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.providers[name]; ok {
		return p, nil
	}

	p, err := createFantasyProvider(name, c.apiKey(name), c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", name, err)
	}
	c.providers[name] = p
	return p, nil
}

// createFantasyProvider creates a fantasy provider for the given provider
// name, API key, and optional base URL.
func createFantasyProvider(providerName, apiKey, baseURL string) (fantasy.Provider, error) {
	switch providerName {
	case "anthropic":
		if baseURL != "" {
			return openaicompat.New(
				openaicompat.WithBaseURL(baseURL),
				openaicompat.WithAPIKey(apiKey),
				openaicompat.WithName("anthropic"),
			)
		}
		return anthropic.New(anthropic.WithAPIKey(apiKey))
	case "openai":
		if baseURL != "" {
			return openaicompat.New(
				openaicompat.WithBaseURL(baseURL),
				openaicompat.WithAPIKey(apiKey),
				openaicompat.WithName("openai"),
			)
		}
		return openai.New(openai.WithAPIKey(apiKey))
	case "google":
		return google.New(google.WithGeminiAPIKey(apiKey))
	case "groq":
		url := "https://api.groq.com/openai/v1"
		if baseURL != "" {
			url = baseURL
		}
		return openaicompat.New(
			openaicompat.WithBaseURL(url),
			openaicompat.WithAPIKey(apiKey),
			openaicompat.WithName("groq"),
		)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// InferProviderFromModel returns the provider name based on model name
// patterns, so the registry can store bare model ids.
func InferProviderFromModel(model string) string {
	model = strings.ToLower(model)

	if strings.HasPrefix(model, "claude") {
		return "anthropic"
	}

	if strings.HasPrefix(model, "gpt-") ||
		strings.HasPrefix(model, "o1") ||
		strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "chatgpt") {
		return "openai"
	}

	if strings.HasPrefix(model, "gemini") ||
		strings.HasPrefix(model, "gemma") {
		return "google"
	}

	if strings.HasPrefix(model, "llama") ||
		strings.HasPrefix(model, "mixtral") {
		return "groq"
	}

	return ""
}
