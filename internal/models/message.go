// Package models contains data types and constants shared across the
// DevAI workbench.
package models

import (
	"strings"

	apierrors "github.com/emredev/devai/internal/errors"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a conversation. Ordering in a
// slice of messages is semantically meaningful.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ConvertMessages validates untyped request input into a []Message.
// Shape mismatches are rejected with a ValidationError at the boundary
// instead of propagating ambiguity inward.
func ConvertMessages(raw []map[string]any) ([]Message, error) {
	if len(raw) == 0 {
		return nil, apierrors.NewValidationError("messages", "must be a non-empty array")
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		role, _ := item["role"].(string)
		content, _ := item["content"].(string)

		role = strings.TrimSpace(role)
		if !ValidRole(role) {
			return nil, apierrors.NewValidationError("messages", "role must be system, user, or assistant")
		}
		if content == "" {
			return nil, apierrors.NewValidationError("messages", "content must be a non-empty string")
		}

		messages = append(messages, Message{Role: role, Content: content})
	}

	return messages, nil
}

// SerializedLength returns the total character count of the history as
// the router sees it. Used for the size-based escalation rule.
func SerializedLength(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += len(m.Role) + len(m.Content)
	}
	return total
}

// LastContent returns the content of the last message, or fallback when
// the history is empty.
func LastContent(messages []Message, fallback string) string {
	if len(messages) == 0 {
		return fallback
	}
	return messages[len(messages)-1].Content
}
