package server

import (
	"github.com/tidwall/gjson"

	apierrors "github.com/emredev/devai/internal/errors"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/orchestrator"
)

// generateRequest is the decoded body of POST /api/generate. Clients
// send either a bare prompt or a full message history; both forms are
// accepted.
type generateRequest struct {
	Prompt   string
	Messages []models.Message
	Tier     *models.Tier
}

// decodeGenerateRequest tolerantly decodes the request body. gjson
// lets malformed trailing fields through as long as the parts we need
// are present and well formed.
func decodeGenerateRequest(body []byte) (*generateRequest, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewValidationError("body", "request body is not valid JSON")
	}

	req := &generateRequest{}
	root := gjson.ParseBytes(body)

	req.Prompt = root.Get("prompt").String()

	if msgs := root.Get("messages"); msgs.IsArray() {
		for _, item := range msgs.Array() {
			role := item.Get("role").String()
			content := item.Get("content").String()
			if !models.ValidRole(role) {
				return nil, apierrors.NewValidationError("messages", "message role must be system, user or assistant")
			}
			req.Messages = append(req.Messages, models.Message{Role: role, Content: content})
		}
	}

	if req.Prompt == "" && len(req.Messages) == 0 {
		return nil, apierrors.NewValidationError("prompt", "prompt or messages required")
	}

	if tierName := root.Get("tier").String(); tierName != "" {
		tier, ok := models.ParseTier(tierName)
		if !ok {
			return nil, apierrors.NewValidationError("tier", "unknown tier: "+tierName)
		}
		req.Tier = &tier
	}

	return req, nil
}

// sendRequest is the decoded body of POST /api/sessions/:id/messages.
type sendRequest struct {
	Text        string
	Attachments []models.VirtualFile
}

func decodeSendRequest(body []byte) (*sendRequest, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewValidationError("body", "request body is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	req := &sendRequest{Text: root.Get("text").String()}
	if req.Text == "" {
		return nil, apierrors.NewValidationError("text", "text is required")
	}

	if files := root.Get("attachments"); files.IsArray() {
		for _, item := range files.Array() {
			name := item.Get("name").String()
			if name == "" {
				return nil, apierrors.NewValidationError("attachments", "attachment name is required")
			}
			req.Attachments = append(req.Attachments, models.VirtualFile{
				Name:     name,
				Language: item.Get("language").String(),
				Content:  item.Get("content").String(),
			})
		}
	}

	return req, nil
}

// task converts the request into an orchestrator task.
func (r *generateRequest) task() orchestrator.Task {
	return orchestrator.Task{
		Messages: r.Messages,
		Prompt:   r.Prompt,
		Tier:     r.Tier,
	}
}
