package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/orchestrator"
	"github.com/emredev/devai/internal/session"
	"github.com/emredev/devai/internal/workspace"
)

type stubSender struct {
	reply string
	err   error
	sent  []string
}

func (s *stubSender) Send(_ context.Context, _ string, text string, _ []models.VirtualFile) (*session.SendResult, error) {
	s.sent = append(s.sent, text)
	if s.err != nil {
		return nil, s.err
	}
	return &session.SendResult{
		Result: &orchestrator.Result{
			Content:      s.reply,
			Tier:         models.TierCoder,
			PersonaLabel: "Senior Developer",
		},
	}, nil
}

func newReadyModel(sender Sender) Model {
	m := NewChatModel(sender, "session-1", workspace.NewStore())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func TestEnterSendsMessage(t *testing.T) {
	sender := &stubSender{reply: "tamam"}
	m := newReadyModel(sender)

	m.textarea.SetValue("bir component kodla")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !m.loading {
		t.Error("model should be loading after send")
	}
	if len(m.messages) != 1 || m.messages[0].role != "user" {
		t.Fatalf("user message not recorded: %+v", m.messages)
	}
	if cmd == nil {
		t.Fatal("enter should produce a command")
	}
}

func TestResponseAppendsAssistantMessage(t *testing.T) {
	m := newReadyModel(&stubSender{})
	m.loading = true

	updated, _ := m.Update(responseMsg{result: &orchestrator.Result{
		Content:      "işte kod",
		PersonaLabel: "Senior Developer",
		Escalated:    true,
	}})
	m = updated.(Model)

	if m.loading {
		t.Error("loading should stop on response")
	}
	if len(m.messages) != 1 || m.messages[0].role != "assistant" {
		t.Fatalf("assistant message not recorded: %+v", m.messages)
	}
	if !m.messages[0].escalated {
		t.Error("escalation flag lost")
	}
}

func TestErrStopsLoading(t *testing.T) {
	m := newReadyModel(&stubSender{})
	m.loading = true

	updated, _ := m.Update(errMsg{err: context.DeadlineExceeded})
	m = updated.(Model)

	if m.loading {
		t.Error("loading should stop on error")
	}
	if m.err == nil {
		t.Error("error should be recorded for display")
	}
}

func TestApplyLastReply(t *testing.T) {
	m := newReadyModel(&stubSender{})

	m.messages = append(m.messages, chatMessage{
		role:    "assistant",
		content: "İşte dosya:\n[FILE: app.js]\n```js\nconst x = 1;\n```\n",
	})

	notice := m.applyLastReply()
	if !strings.Contains(notice, "1 file(s) applied") {
		t.Errorf("notice = %q", notice)
	}
	if m.files.Get("app.js") == nil {
		t.Error("parsed file should land in the workspace")
	}
}

func TestApplyLastReply_NoFiles(t *testing.T) {
	m := newReadyModel(&stubSender{})
	m.messages = append(m.messages, chatMessage{role: "assistant", content: "sadece metin"})

	if notice := m.applyLastReply(); !strings.Contains(notice, "no files") {
		t.Errorf("notice = %q", notice)
	}
}

func TestEscQuitsWhenIdle(t *testing.T) {
	m := newReadyModel(&stubSender{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit when idle")
	}
}

func TestEscCancelsLoading(t *testing.T) {
	m := newReadyModel(&stubSender{})
	m.loading = true

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if updated.(Model).loading {
		t.Error("esc should cancel loading instead of quitting")
	}
}

func TestCancelledSendReplyIsDropped(t *testing.T) {
	sender := &stubSender{reply: "geç kalan cevap"}
	m := newReadyModel(sender)

	m.textarea.SetValue("uzun bir istek")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	staleSeq := m.sendSeq

	// Cancel while the send is still in flight.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	// The goroutine finishes anyway; its reply carries the old seq.
	updated, _ = m.Update(responseMsg{seq: staleSeq, result: &orchestrator.Result{Content: "geç kalan cevap"}})
	m = updated.(Model)

	if len(m.messages) != 1 {
		t.Errorf("stale reply must be dropped, got %d messages", len(m.messages))
	}

	updated, _ = m.Update(errMsg{seq: staleSeq, err: context.DeadlineExceeded})
	m = updated.(Model)
	if m.err != nil {
		t.Error("stale error must be dropped")
	}
}

func TestSendAfterCancelAcceptsFreshReply(t *testing.T) {
	m := newReadyModel(&stubSender{reply: "ilk"})

	m.textarea.SetValue("ilk istek")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	m.textarea.SetValue("ikinci istek")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(responseMsg{seq: m.sendSeq, result: &orchestrator.Result{Content: "ikinci cevap"}})
	m = updated.(Model)

	var assistant []string
	for _, msg := range m.messages {
		if msg.role == "assistant" {
			assistant = append(assistant, msg.content)
		}
	}
	if len(assistant) != 1 || assistant[0] != "ikinci cevap" {
		t.Errorf("only the fresh reply should land, got %v", assistant)
	}
}
