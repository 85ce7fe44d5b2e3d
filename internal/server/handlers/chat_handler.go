package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/service/advisor"
)

// AdvisorService is the slice of the AI advisor the HTTP layer needs.
type AdvisorService interface {
	Analyze(ctx context.Context, owner string) (string, error)
	Chat(ctx context.Context, owner, message string) (string, error)
	ResetChat(owner string)
}

// ChatHandler fronts the AI assistant endpoints.
type ChatHandler struct {
	svc    AdvisorService
	logger *zap.Logger
}

// NewChatHandler constructs the assistant adapter.
func NewChatHandler(svc AdvisorService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{svc: svc, logger: logger}
}

type chatRequest struct {
	Owner   string `json:"owner" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Chat sends one conversational turn to the assistant.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.Owner, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type analysisRequest struct {
	Owner string `json:"owner" binding:"required"`
}

// Analyze produces a one-shot AI assessment of the owner's farm statistics.
func (h *ChatHandler) Analyze(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analysis payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), req.Owner)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// Reset clears the owner's conversation history.
func (h *ChatHandler) Reset(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.svc.ResetChat(req.Owner)
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, advisor.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}
	if errors.Is(err, advisor.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ai assistant is not configured"})
		return
	}
	h.logger.Error("assistant request failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "unable to reach farm data"})
}
