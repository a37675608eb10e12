// Package openai implements the LLM-backed intent classifier.
//
// The model is used purely as a router: it receives one question and must
// return a single JSON object matching the Route schema, nothing else.
// Responses are validated fail-closed (strict parse); anything malformed
// becomes a classified error so the caller can fall back to the rule
// router.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/domain/router"
)

// DefaultModel is used when the config names none.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are a routing component for a menu Q&A assistant.\n" +
	"Your only job is to output JSON for the routing decision.\n" +
	"Do not answer the user. Do not include explanations."

const userPromptTemplate = `Return ONLY valid JSON with this schema:

{
  "intent": "...",
  "item": string|null,
  "portion": string|null,
  "category": string|null,
  "discount": string|null,
  "channel": string|null
}

Valid intents:
- get_price
- get_calories
- list_category_items
- list_discounts
- discount_details
- discount_triggers
- compare_price_across_channels
- unknown

Rules:
- If asking for price, use get_price and extract portion words like small/medium/large when present.
- If asking calories, use get_calories.
- If asking "which salads/bowls/smoothies...", use list_category_items and put the category.
- If asking "what discounts are available today", use list_discounts.
- If asking about a specific discount (coupons, triggers, details), use discount_details or discount_triggers.
- If asking whether price is same across channels, use compare_price_across_channels.
- If unsure, use unknown.

Question: %s
`

// Sentinel errors for response-shape failures, used by Classify.
var (
	ErrMissingAPIKey = errors.New("api key not set")
	ErrNotJSON       = errors.New("llm response is not a json-only object")
	ErrInvalidRoute  = errors.New("llm route failed validation")
)

// Config holds initialization parameters for the classifier.
type Config struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string

	// Model overrides DefaultModel when set.
	Model string
}

// Classifier routes questions through an OpenAI chat model.
type Classifier struct {
	model  string
	logger *zap.Logger

	// complete performs the chat call; swapped out in tests.
	complete func(ctx context.Context, system, user string) (string, error)
}

// New creates a Classifier. Fails when no API key is configured so the
// caller can wire the rule-only path instead.
func New(cfg Config, logger *zap.Logger) (*Classifier, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client := goopenai.NewClient(cfg.APIKey)
	c := &Classifier{model: model, logger: logger.Named("llmrouter")}
	c.complete = func(ctx context.Context, system, user string) (string, error) {
		resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
			Model:       model,
			Temperature: 0,
			Messages: []goopenai.ChatCompletionMessage{
				{Role: goopenai.ChatMessageRoleSystem, Content: system},
				{Role: goopenai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return "", fmt.Errorf("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	}
	return c, nil
}

// Model reports the configured model name, for route metadata.
func (c *Classifier) Model() string { return c.model }

// Route classifies a question. The raw model output is returned alongside
// the route for tracing, including on error paths where it was received.
func (c *Classifier) Route(ctx context.Context, question string) (router.Route, string, error) {
	user := fmt.Sprintf(userPromptTemplate, question)

	raw, err := c.complete(ctx, systemPrompt, user)
	if err != nil {
		return router.Route{}, "", fmt.Errorf("chat completion: %w", err)
	}
	c.logger.Debug("llm route response", zap.String("model", c.model), zap.String("raw", raw))

	payload := stripCodeFences(raw)
	if !strings.HasPrefix(payload, "{") || !strings.HasSuffix(payload, "}") {
		return router.Route{}, raw, ErrNotJSON
	}

	var route router.Route
	if err := json.Unmarshal([]byte(payload), &route); err != nil {
		return router.Route{}, raw, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	validated, err := router.ParseStrict(route)
	if err != nil {
		return router.Route{}, raw, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	return validated, raw, nil
}

// stripCodeFences unwraps a ```json fenced block when the whole response is
// one; anything else passes through untouched.
func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl == -1 || !strings.HasSuffix(s, "```") {
		return s
	}
	return strings.TrimSpace(s[nl+1 : len(s)-3])
}

// Classify maps an error from Route to a stable reason tag for routing
// metadata and fallback decisions.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrInvalidRoute):
		return "llm_validation_error"
	case errors.Is(err, ErrNotJSON):
		return "llm_invalid_json"
	case errors.Is(err, ErrMissingAPIKey):
		return "llm_auth_error"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "401"),
		strings.Contains(msg, "unauthorized"), strings.Contains(msg, "authentication"):
		return "llm_auth_error"
	case strings.Contains(msg, "rate") && strings.Contains(msg, "limit"), strings.Contains(msg, "429"):
		return "llm_rate_limited"
	default:
		return "llm_exception"
	}
}
