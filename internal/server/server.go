// Package server exposes the workbench over HTTP: one generate
// endpoint for stateless requests plus a small session REST surface
// for the web front end.
package server

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/emredev/devai/internal/config"
	apierrors "github.com/emredev/devai/internal/errors"
	"github.com/emredev/devai/internal/orchestrator"
	"github.com/emredev/devai/internal/session"
)

// Server wires the orchestrator and session manager behind HTTP.
type Server struct {
	hertz        *server.Hertz
	orchestrator *orchestrator.Orchestrator
	manager      *session.Manager
	cfg          config.Config
}

// New builds the HTTP server with routes and middleware installed.
func New(cfg config.Config, o *orchestrator.Orchestrator, manager *session.Manager) *Server {
	h := server.Default(
		server.WithHostPorts(cfg.ServerAddr),
		server.WithMaxRequestBodySize(cfg.MaxBodyBytes),
	)

	s := &Server{
		hertz:        h,
		orchestrator: o,
		manager:      manager,
		cfg:          cfg,
	}

	h.Use(Recovery(), CORS(), AccessLog())

	h.GET("/ping", s.handlePing)

	api := h.Group("/api")
	api.POST("/generate", s.handleGenerate)
	api.GET("/sessions", s.handleListSessions)
	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	api.POST("/sessions/:id/messages", s.handleSendMessage)

	return s
}

// Run starts serving and blocks until shutdown.
func (s *Server) Run() error {
	slog.Info("server listening", "addr", s.cfg.ServerAddr)
	return s.hertz.Run()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hertz.Shutdown(ctx)
}

func (s *Server) handlePing(_ context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// handleGenerate runs one stateless generation request. Oversized
// bodies never reach here: WithMaxRequestBodySize rejects them with a
// 413 during request parsing.
func (s *Server) handleGenerate(ctx context.Context, c *app.RequestContext) {
	req, err := decodeGenerateRequest(c.Request.Body())
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	result, err := s.orchestrator.Execute(ctx, req.task())
	if err != nil {
		writeExecuteError(c, err)
		return
	}

	c.JSON(consts.StatusOK, utils.H{
		"message": result.Content,
		"meta":    s.resultMeta(result),
	})
}

func (s *Server) handleListSessions(_ context.Context, c *app.RequestContext) {
	sessions, err := s.manager.Store().List()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	// Listing elides message bodies; clients fetch a session to read it.
	type summary struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		UpdatedAt string `json:"updated_at"`
		Messages  int    `json:"messages"`
	}
	out := make([]summary, len(sessions))
	for i, sess := range sessions {
		out[i] = summary{
			ID:        sess.ID,
			Title:     sess.Title,
			UpdatedAt: sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Messages:  len(sess.Messages),
		}
	}
	c.JSON(consts.StatusOK, utils.H{"sessions": out})
}

func (s *Server) handleCreateSession(_ context.Context, c *app.RequestContext) {
	sess, err := s.manager.Store().Create()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusCreated, sess)
}

func (s *Server) handleGetSession(_ context.Context, c *app.RequestContext) {
	sess, err := s.manager.Store().Get(c.Param("id"))
	if err != nil {
		c.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, sess)
}

func (s *Server) handleDeleteSession(_ context.Context, c *app.RequestContext) {
	if err := s.manager.Store().Delete(c.Param("id")); err != nil {
		c.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, utils.H{"deleted": true})
}

// handleSendMessage appends one user turn to a session and returns the
// assistant reply.
func (s *Server) handleSendMessage(ctx context.Context, c *app.RequestContext) {
	req, err := decodeSendRequest(c.Request.Body())
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	out, err := s.manager.Send(ctx, c.Param("id"), req.Text, req.Attachments)
	if err != nil {
		if apierrors.IsValidationError(err) {
			c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		writeExecuteError(c, err)
		return
	}

	c.JSON(consts.StatusOK, utils.H{
		"message": out.Result.Content,
		"meta":    s.resultMeta(out.Result),
		"session": utils.H{
			"id":    out.Session.ID,
			"title": out.Session.Title,
		},
	})
}

func (s *Server) resultMeta(result *orchestrator.Result) utils.H {
	return utils.H{
		"model":     s.cfg.ModelForTier(result.Tier),
		"tier":      result.Tier.String(),
		"role":      result.PersonaLabel,
		"escalated": result.Escalated,
		"degraded":  result.Degraded,
	}
}

// writeExecuteError maps orchestrator failures to HTTP statuses. Only
// validation and overflow errors reach this point; everything else the
// orchestrator absorbs into the fallback message.
func writeExecuteError(c *app.RequestContext, err error) {
	switch {
	case apierrors.IsValidationError(err):
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
	case apierrors.IsContextOverflow(err):
		c.JSON(consts.StatusRequestEntityTooLarge, utils.H{"error": err.Error()})
	case apierrors.IsProviderError(err):
		c.JSON(consts.StatusBadGateway, utils.H{"error": err.Error()})
	default:
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
	}
}
