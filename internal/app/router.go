package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/adapters/openai"
	"github.com/corey/menuqa/internal/domain/router"
)

// RouteSource is the LLM classifier contract, satisfied by
// *openai.Classifier and by test fakes.
type RouteSource interface {
	Route(ctx context.Context, question string) (router.Route, string, error)
	Model() string
}

// RouteDecision is one routing outcome with its provenance: which source
// produced it and, on LLM fallback, why.
type RouteDecision struct {
	Route  router.Route `json:"route"`
	Source string       `json:"router"` // "llm" or "rules"
	Reason string       `json:"reason,omitempty"`
	Model  string       `json:"model,omitempty"`
	Error  string       `json:"error,omitempty"`
	Raw    string       `json:"-"` // raw LLM output, for debug traces only
}

// Router chains the LLM classifier ahead of the deterministic rules. It
// never fails: every LLM error is classified, logged, and absorbed by the
// rules fallback.
type Router struct {
	llm    RouteSource // nil when no API key is configured
	logger *zap.Logger
}

// NewRouter builds the chain. llm may be nil for the rules-only path.
func NewRouter(llm RouteSource, logger *zap.Logger) *Router {
	return &Router{llm: llm, logger: logger.Named("router")}
}

// Route classifies a question.
func (r *Router) Route(ctx context.Context, question string) RouteDecision {
	if r.llm == nil {
		return RouteDecision{
			Route:  router.Rules(question),
			Source: "rules",
			Reason: "llm_disabled",
		}
	}

	route, raw, err := r.llm.Route(ctx, question)
	if err == nil {
		r.logger.Debug("llm route",
			zap.String("intent", string(route.Intent)),
			zap.String("model", r.llm.Model()))
		return RouteDecision{Route: route, Source: "llm", Model: r.llm.Model(), Raw: raw}
	}

	reason := openai.Classify(err)
	r.logger.Warn("llm route failed, falling back to rules",
		zap.String("reason", reason),
		zap.Error(err))
	return RouteDecision{
		Route:  router.Rules(question),
		Source: "rules",
		Reason: reason,
		Error:  truncate(err.Error(), 200),
		Raw:    raw,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
