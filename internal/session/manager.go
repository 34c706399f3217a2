package session

import (
	"context"
	"fmt"
	"strings"

	apierrors "github.com/emredev/devai/internal/errors"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/orchestrator"
)

// Manager drives the chat send pipeline: it composes the outgoing user
// message, runs the orchestrator over the full session history, and
// persists the turn once the assistant reply is final. A failed turn
// leaves the stored session untouched.
type Manager struct {
	store        *Store
	orchestrator *orchestrator.Orchestrator
}

// NewManager creates a Manager around a store and an orchestrator.
func NewManager(store *Store, o *orchestrator.Orchestrator) *Manager {
	return &Manager{
		store:        store,
		orchestrator: o,
	}
}

// Store exposes the underlying session store for listing and deletion.
func (m *Manager) Store() *Store {
	return m.store
}

// SendResult pairs the orchestrator outcome with the updated session.
type SendResult struct {
	Result  *orchestrator.Result
	Session *Session
}

// Send submits one user turn to a session. Attached workspace files are
// inlined into the user message the same way the assistant emits them,
// so the model sees current file state as context. The session is
// persisted only after the assistant reply is in hand.
func (m *Manager) Send(ctx context.Context, sessionID, text string, attachments []models.VirtualFile) (*SendResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.NewValidationError("text", "message text is empty")
	}

	sess, err := m.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := models.Message{
		Role:    models.RoleUser,
		Content: composeUserContent(text, attachments),
	}

	history := make([]models.Message, 0, len(sess.Messages)+1)
	history = append(history, sess.Messages...)
	history = append(history, userMsg)

	result, err := m.orchestrator.Execute(ctx, orchestrator.Task{
		Messages: history,
		Prompt:   text,
	})
	if err != nil {
		return nil, err
	}

	assistantMsg := models.Message{
		Role:    models.RoleAssistant,
		Content: result.Content,
	}

	updated, err := m.store.Append(sessionID, userMsg, assistantMsg)
	if err != nil {
		return nil, err
	}

	return &SendResult{
		Result:  result,
		Session: updated,
	}, nil
}

// composeUserContent appends attached files after the message text in
// the same tagged-fence form the assistant uses for generated files.
func composeUserContent(text string, attachments []models.VirtualFile) string {
	if len(attachments) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	for _, f := range attachments {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "[FILE: %s]\n", f.Name)
		fmt.Fprintf(&b, "```%s\n", f.Language)
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```")
	}
	return b.String()
}
