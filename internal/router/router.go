// Package router selects which persona and model tier handles a
// request, based on keyword signals in the latest message and the
// aggregate conversation size.
package router

import (
	"strings"

	"github.com/emredev/devai/internal/models"
)

// DefaultContextThreshold is the serialized-history size (in
// characters) past which a request escalates to the architect tier
// regardless of keywords. Tunable via Config.
const DefaultContextThreshold = 5000

// Selection is the router's verdict for one request.
type Selection struct {
	Tier         models.Tier
	PersonaLabel string
	SystemPrompt string
}

// Keyword sets carry the bilingual (Turkish and English) vocabulary the
// user base actually types. Matching is case-insensitive substring.
var (
	strategyKeywords = []string{
		"strateji", "strategy", "kpi", "roi",
		"hedef kitle", "target audience", "büyüme", "growth",
		"pazarlama", "marketing", "rakip analizi", "competitor analysis",
		"fikir ver", "business plan", "nasıl satarım",
		"blog yazısı", "tweet", "reklam metni", "mail taslağı", "seo",
	}

	architectKeywords = []string{
		"karmaşık", "complex", "mimari", "architecture", "design",
		"yapısı kur", "optimize et", "optimize", "security", "güvenlik",
		"scalable", "ölçeklenebilir", "best practice", "refactor",
		"entegrasyon", "integration", "mikroservis", "microservice",
		"full stack", "yapı",
	}

	coderKeywords = []string{
		"kod", "code", "fonksiyon", "function", "bug", "hata",
		"fix", "debug", "düzelt", "component", "script",
	}
)

// rule is one (predicate, tier) entry of the routing table.
type rule struct {
	tier  models.Tier
	match func(prompt string, historySize int) bool
}

// Router decides the specialist for each request. It is stateless and
// safe for concurrent use.
type Router struct {
	rules            []rule
	contextThreshold int
}

// Option configures a Router
type Option func(*Router)

// WithContextThreshold overrides the history size that forces the
// architect tier.
func WithContextThreshold(chars int) Option {
	return func(r *Router) {
		if chars > 0 {
			r.contextThreshold = chars
		}
	}
}

// New creates a Router with the fixed priority rule table. Rules are
// evaluated top to bottom and the first match wins; there is no scoring.
func New(opts ...Option) *Router {
	r := &Router{contextThreshold: DefaultContextThreshold}
	for _, opt := range opts {
		opt(r)
	}

	r.rules = []rule{
		{models.TierStrategy, func(prompt string, _ int) bool {
			return containsAny(prompt, strategyKeywords)
		}},
		{models.TierArchitect, func(prompt string, historySize int) bool {
			return containsAny(prompt, architectKeywords) || historySize > r.contextThreshold
		}},
		{models.TierCoder, func(prompt string, _ int) bool {
			return containsAny(prompt, coderKeywords)
		}},
	}

	return r
}

// Select picks the specialist for the latest message. When the history
// is empty, fallbackPrompt stands in for the latest message. Select is
// pure and total: every input resolves to exactly one tier.
func (r *Router) Select(history []models.Message, fallbackPrompt string) Selection {
	prompt := strings.ToLower(models.LastContent(history, fallbackPrompt))
	historySize := models.SerializedLength(history)

	tier := models.TierFast
	for _, rule := range r.rules {
		if rule.match(prompt, historySize) {
			tier = rule.tier
			break
		}
	}

	return selectionFor(tier)
}

// SelectTier returns the selection for an explicitly requested tier,
// bypassing keyword detection. Used when the caller already knows the
// task type.
func (r *Router) SelectTier(tier models.Tier) Selection {
	return selectionFor(tier)
}

func selectionFor(tier models.Tier) Selection {
	p := PersonaFor(tier)
	return Selection{
		Tier:         tier,
		PersonaLabel: p.Label,
		SystemPrompt: p.SystemPrompt,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
