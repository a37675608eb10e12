package app

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/adapters/fuzzy"
	"github.com/corey/menuqa/internal/adapters/openai"
	"github.com/corey/menuqa/internal/config"
	"github.com/corey/menuqa/internal/domain/reply"
	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/domain/router"
	"github.com/corey/menuqa/internal/domain/tools"
	"github.com/corey/menuqa/internal/ports"
)

// App is the assembled question answering service. The index pointer is
// swapped atomically on reload; every Ask reads one consistent snapshot.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	router  *Router
	tools   *tools.Tools
	idx     atomic.Pointer[resolve.Index]
	watcher ports.Watcher
}

// Answer is the outcome of one question: the response text plus routing
// and tool traces for debug output.
type Answer struct {
	Text  string
	Route RouteDecision
	Tool  *tools.Result
}

// New loads the dataset and assembles the service. The LLM router is wired
// only when an API key is configured; otherwise the rule router runs alone.
func New(cfg config.Config, logger *zap.Logger) (*App, LoadSummary, error) {
	idx, summary, err := LoadIndexWithSummary(cfg.DatasetPath)
	if err != nil {
		return nil, LoadSummary{}, err
	}

	var llm RouteSource
	if cfg.OpenAI.APIKey != "" {
		classifier, err := openai.New(openai.Config{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.Model,
		}, logger)
		if err != nil {
			return nil, LoadSummary{}, err
		}
		llm = classifier
	} else {
		logger.Info("no OpenAI API key configured, using rule router only")
	}

	resolver := resolve.NewResolver(fuzzy.NewWRatioScorer(), cfg.TopK)
	a := &App{
		cfg:    cfg,
		logger: logger.Named("app"),
		router: NewRouter(llm, logger),
		tools:  tools.New(resolver),
	}
	a.idx.Store(idx)

	logger.Info("index built",
		zap.Int("items", summary.TotalItems),
		zap.Int("categories", summary.TotalCategories),
		zap.Int("discounts", summary.TotalDiscounts))
	return a, summary, nil
}

// Index returns the current index snapshot.
func (a *App) Index() *resolve.Index {
	return a.idx.Load()
}

// Clarification prompts per intent when a required slot is missing.
func missingEntityPrompt(intent router.Intent) string {
	switch intent {
	case router.IntentGetPrice:
		return "Which item would you like the price for?"
	case router.IntentGetCalories:
		return "Which item would you like the calories for?"
	case router.IntentListCategoryItems:
		return "Which category should I list items for (e.g., salads, bowls, smoothies)?"
	case router.IntentDiscountDetails, router.IntentDiscountTriggers:
		return "Which discount are you asking about?"
	case router.IntentChannelCompare:
		return "Which item should I compare across channels?"
	default:
		return "I can help with prices, calories, categories, and discounts. What would you like to know?"
	}
}

// Ask answers one question. It never panics for user input; every path
// produces an Answer, worst case the generic capability prompt.
func (a *App) Ask(ctx context.Context, question string, sess *Session) Answer {
	idx := a.idx.Load()
	decision := a.router.Route(ctx, question)
	r := decision.Route

	a.logger.Debug("routed",
		zap.String("question", question),
		zap.String("intent", string(r.Intent)),
		zap.String("source", decision.Source))

	answer := Answer{Route: decision}

	var res tools.Result
	switch r.Intent {
	case router.IntentGetPrice:
		item := r.Item
		if item == "" {
			item = sess.LastItem()
		}
		if item == "" {
			answer.Text = missingEntityPrompt(r.Intent)
			return answer
		}
		res = a.tools.ItemPrice(idx, item, r.Portion, r.Channel)

	case router.IntentGetCalories:
		item := r.Item
		if item == "" {
			item = sess.LastItem()
		}
		if item == "" {
			answer.Text = missingEntityPrompt(r.Intent)
			return answer
		}
		res = a.tools.ItemCalories(idx, item)

	case router.IntentListCategoryItems:
		if r.Category == "" {
			answer.Text = missingEntityPrompt(r.Intent)
			return answer
		}
		res = a.tools.ItemsByCategory(idx, r.Category)

	case router.IntentListDiscounts:
		res = a.tools.ListDiscounts(idx)

	case router.IntentDiscountDetails, router.IntentDiscountTriggers:
		discount := router.SanitizeDiscountQuery(question, r.Discount)
		if discount == "" {
			answer.Text = missingEntityPrompt(r.Intent)
			return answer
		}
		if r.Intent == router.IntentDiscountDetails {
			res = a.tools.DiscountDetails(idx, discount)
		} else {
			res = a.tools.DiscountTriggers(idx, discount)
		}

	case router.IntentChannelCompare:
		if r.Item == "" {
			answer.Text = missingEntityPrompt(r.Intent)
			return answer
		}
		res = a.tools.ComparePriceAcrossChannels(idx, r.Item, r.Portion)

	default:
		answer.Text = missingEntityPrompt(router.IntentUnknown)
		return answer
	}

	if res.OK {
		switch d := res.Data.(type) {
		case tools.PriceData:
			sess.rememberItem(d.ItemID, d.ItemName)
		case tools.CaloriesData:
			sess.rememberItem(d.ItemID, d.ItemName)
		}
	}

	answer.Tool = &res
	answer.Text = reply.Format(res)
	return answer
}

// ErrNoWatcher is returned by StartWatch when no watcher was attached.
var ErrNoWatcher = errors.New("no watcher attached")
