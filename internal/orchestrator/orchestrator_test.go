package orchestrator

import (
	"context"
	"strings"
	"testing"

	apierrors "github.com/emredev/devai/internal/errors"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/router"
)

// stubProvider scripts a sequence of provider outcomes and records the
// tiers it was called with.
type stubProvider struct {
	responses []stubResponse
	calls     int
	tiers     []models.Tier
	messages  [][]models.Message
}

type stubResponse struct {
	content string
	err     error
}

func (s *stubProvider) Complete(_ context.Context, tier models.Tier, messages []models.Message) (string, error) {
	s.tiers = append(s.tiers, tier)
	s.messages = append(s.messages, messages)

	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	return s.responses[idx].content, s.responses[idx].err
}

// goodCode is long enough and contains code markers, so it passes the
// confidence check on every tier.
const goodCode = "Here you go.\n[FILE: a.js]\n```js\nexport const answer = 42;\n```\n"

func newOrchestrator(p Provider, opts ...Option) *Orchestrator {
	return New(router.New(), p, opts...)
}

func TestExecute_Success(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{{content: goodCode}}}
	o := newOrchestrator(provider)

	result, err := o.Execute(context.Background(), Task{Prompt: "write a function that adds two numbers"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Content != goodCode {
		t.Errorf("Content = %q", result.Content)
	}
	if result.Tier != models.TierCoder {
		t.Errorf("Tier = %v, want CODER", result.Tier)
	}
	if result.Escalated {
		t.Error("no escalation expected")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestExecute_SystemMessagePrepended(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{{content: goodCode}}}
	o := newOrchestrator(provider)

	if _, err := o.Execute(context.Background(), Task{Prompt: "fix this bug please"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	sent := provider.messages[0]
	if len(sent) != 2 {
		t.Fatalf("expected system + user message, got %d", len(sent))
	}
	if sent[0].Role != models.RoleSystem || sent[0].Content == "" {
		t.Errorf("first message must carry the persona system prompt: %+v", sent[0])
	}
	if sent[1].Role != models.RoleUser {
		t.Errorf("user message not preserved: %+v", sent[1])
	}
}

func TestExecute_EscalatesOnProviderError(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: apierrors.NewProviderError("coder-model", "rate limited", nil)},
		{content: goodCode},
	}}
	o := newOrchestrator(provider)

	result, err := o.Execute(context.Background(), Task{Prompt: "write code for a parser"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !result.Escalated {
		t.Error("Escalated should be true")
	}
	if result.Content != goodCode {
		t.Errorf("Content = %q, want second call's content", result.Content)
	}
	if result.Tier != models.HighestTier {
		t.Errorf("Tier = %v, want %v", result.Tier, models.HighestTier)
	}
	if len(provider.tiers) != 2 || provider.tiers[1] != models.HighestTier {
		t.Errorf("second call should force the highest tier, got %v", provider.tiers)
	}
}

func TestExecute_EscalatesOnLowConfidence(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{content: "ok"}, // far below the length cutoff
		{content: goodCode},
	}}
	o := newOrchestrator(provider)

	result, err := o.Execute(context.Background(), Task{Prompt: "hello there, how are you today my friend"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Escalated {
		t.Error("short reply should have escalated")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestExecute_CodeTierWithoutCodeEscalates(t *testing.T) {
	noCode := strings.Repeat("this reply talks about nothing in particular. ", 5)
	provider := &stubProvider{responses: []stubResponse{
		{content: noCode},
		{content: goodCode},
	}}
	o := newOrchestrator(provider)

	tier := models.TierCoder
	result, err := o.Execute(context.Background(), Task{Prompt: "anything", Tier: &tier})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Escalated {
		t.Error("code tier reply with no code markers should escalate")
	}
}

func TestExecute_ProseTierNeedsNoCode(t *testing.T) {
	prose := strings.Repeat("a perfectly reasonable strategic answer. ", 4)
	provider := &stubProvider{responses: []stubResponse{{content: prose}}}
	o := newOrchestrator(provider)

	tier := models.TierStrategy
	result, err := o.Execute(context.Background(), Task{Prompt: "anything", Tier: &tier})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Escalated {
		t.Error("prose tiers must not require code markers")
	}
}

func TestExecute_FallbackWhenAllCallsFail(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: apierrors.NewProviderError("", "down", nil)},
	}}
	o := newOrchestrator(provider)

	result, err := o.Execute(context.Background(), Task{Prompt: "write a quick script"})
	if err != nil {
		t.Fatalf("Execute must absorb provider failures, got %v", err)
	}

	if result.Content != FallbackMessage {
		t.Errorf("Content = %q, want the fixed fallback", result.Content)
	}
	if !result.Degraded || !result.Escalated {
		t.Errorf("fallback result should be flagged degraded and escalated: %+v", result)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2 (original + escalation)", provider.calls)
	}
}

func TestExecute_EmptyTaskRejects(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{{content: goodCode}}}
	o := newOrchestrator(provider)

	_, err := o.Execute(context.Background(), Task{})
	if err == nil {
		t.Fatal("empty task must reject")
	}
	if !apierrors.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if provider.calls != 0 {
		t.Error("provider must not be called for an empty task")
	}
}

func TestExecute_ContextOverflowNotRetried(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: apierrors.NewContextOverflowError("gpt-5.2", "input too large")},
	}}
	o := newOrchestrator(provider)

	_, err := o.Execute(context.Background(), Task{Prompt: "summarize this huge blob of text for me"})
	if err == nil {
		t.Fatal("context overflow must surface")
	}
	if !apierrors.IsContextOverflow(err) {
		t.Errorf("expected ContextOverflowError, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (no retry on overflow)", provider.calls)
	}
}

func TestExecute_TimeoutEscalates(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: apierrors.NewTimeoutError("provider call exceeded deadline")},
		{content: goodCode},
	}}
	o := newOrchestrator(provider)

	result, err := o.Execute(context.Background(), Task{Prompt: "generate some code for me now"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Escalated {
		t.Error("timeouts must escalate like provider errors")
	}
}

func TestExecute_TunableConfidenceCutoff(t *testing.T) {
	short := "fine."
	provider := &stubProvider{responses: []stubResponse{{content: short}}}
	o := newOrchestrator(provider, WithMinResponseChars(3))

	tier := models.TierFast
	result, err := o.Execute(context.Background(), Task{Prompt: "hi", Tier: &tier})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Escalated {
		t.Error("content above the configured cutoff must not escalate")
	}
}
