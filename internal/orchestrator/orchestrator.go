// Package orchestrator owns the retry and fallback policy around model
// calls: it selects a specialist, judges output confidence, and
// escalates to the strongest tier when a call fails or looks weak.
package orchestrator

import (
	"context"
	"strings"

	apierrors "github.com/emredev/devai/internal/errors"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/router"
)

// DefaultMinResponseChars is the minimum content length that passes the
// confidence check. Historical revisions used 20, 50, and 100; the value
// is tunable via Options and only the existence of the cutoff matters.
const DefaultMinResponseChars = 50

// FallbackMessage is the fixed degraded-service reply returned when the
// escalated call also fails. It is a normal content string, not an
// error: provider failures never propagate out of Execute.
const FallbackMessage = "The assistant is temporarily unavailable. Your request was received but could not be processed right now — please try again in a moment."

// Provider is the external model-call collaborator: messages in, text
// out. Implementations must honor ctx cancellation.
type Provider interface {
	Complete(ctx context.Context, tier models.Tier, messages []models.Message) (string, error)
}

// Task is one generation request.
type Task struct {
	// Messages is the conversation to send. When empty, Prompt is
	// wrapped as a single user message.
	Messages []models.Message
	Prompt   string
	// Tier optionally pins the specialist instead of keyword routing.
	Tier *models.Tier
}

// Result carries the final content plus metadata identifying which tier
// actually produced it, so callers can tell the user when escalation
// occurred.
type Result struct {
	Content      string
	Tier         models.Tier
	PersonaLabel string
	Escalated    bool
	Degraded     bool
}

// Orchestrator is a stateless service object; construct once per
// process and inject it wherever requests are handled.
type Orchestrator struct {
	router           *router.Router
	provider         Provider
	minResponseChars int
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithMinResponseChars overrides the confidence length cutoff.
func WithMinResponseChars(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.minResponseChars = n
		}
	}
}

// New creates an Orchestrator around a router and a provider.
func New(r *router.Router, p Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:           r,
		provider:         p,
		minResponseChars: DefaultMinResponseChars,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs one generation request end to end. Provider failures and
// low-confidence output trigger exactly one escalated retry at the
// highest tier; if that also fails, the fixed fallback message is
// returned as content. Only programmer-error input (an empty task)
// rejects, with a ValidationError. Context overflow is surfaced as-is:
// retrying the same oversized input cannot succeed.
func (o *Orchestrator) Execute(ctx context.Context, task Task) (*Result, error) {
	messages := task.Messages
	if len(messages) == 0 {
		if strings.TrimSpace(task.Prompt) == "" {
			return nil, apierrors.NewValidationError("", "neither prompt nor messages supplied")
		}
		messages = []models.Message{{Role: models.RoleUser, Content: task.Prompt}}
	}

	var sel router.Selection
	if task.Tier != nil {
		sel = o.router.SelectTier(*task.Tier)
	} else {
		sel = o.router.Select(messages, task.Prompt)
	}

	content, err := o.call(ctx, sel, messages)
	if err == nil && o.confident(sel.Tier, content) {
		return &Result{
			Content:      content,
			Tier:         sel.Tier,
			PersonaLabel: sel.PersonaLabel,
		}, nil
	}

	if err != nil {
		if apierrors.IsContextOverflow(err) {
			return nil, err
		}
		if apierrors.IsValidationError(err) {
			return nil, err
		}
	}

	// Single-level escalation at the strongest tier, regardless of the
	// originally selected one.
	escalated := o.router.SelectTier(models.HighestTier)
	content, err = o.call(ctx, escalated, messages)
	if err == nil && strings.TrimSpace(content) != "" {
		return &Result{
			Content:      content,
			Tier:         escalated.Tier,
			PersonaLabel: escalated.PersonaLabel,
			Escalated:    true,
		}, nil
	}

	if err != nil && apierrors.IsContextOverflow(err) {
		return nil, err
	}

	return &Result{
		Content:      FallbackMessage,
		Tier:         escalated.Tier,
		PersonaLabel: escalated.PersonaLabel,
		Escalated:    true,
		Degraded:     true,
	}, nil
}

// call prepends the persona's system message and invokes the provider.
func (o *Orchestrator) call(ctx context.Context, sel router.Selection, messages []models.Message) (string, error) {
	conversation := make([]models.Message, 0, len(messages)+1)
	conversation = append(conversation, models.Message{
		Role:    models.RoleSystem,
		Content: sel.SystemPrompt,
	})
	conversation = append(conversation, messages...)

	return o.provider.Complete(ctx, sel.Tier, conversation)
}

// codeMarkers are cheap signals that a reply from a code-producing tier
// actually contains code.
var codeMarkers = []string{
	"```",
	"function", "const ", "import ", "export ",
	"class ", "def ", "func ", "return",
}

// confident applies the confidence signal from the response text:
// empty or too-short output fails, and code-producing tiers must show
// at least one fence marker or common code keyword.
func (o *Orchestrator) confident(tier models.Tier, content string) bool {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < o.minResponseChars {
		return false
	}

	if tier.ProducesCode() {
		for _, marker := range codeMarkers {
			if strings.Contains(content, marker) {
				return true
			}
		}
		return false
	}

	return true
}
