package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/docassist/internal/domain"
	"go.uber.org/zap"
)

// Assistant is the documentation assistant served by the handler
type Assistant interface {
	Reload(ctx context.Context) (*domain.ReloadResult, error)
	Ask(ctx context.Context, question string) (string, error)
	SectionsCount(ctx context.Context) (int, error)
}

// Handler handles documentation API requests
type Handler struct {
	assistant Assistant
	logger    *zap.Logger
}

// NewHandler creates a new documentation handler
func NewHandler(assistant Assistant, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{assistant: assistant, logger: logger}
}

// RegisterRoutes registers documentation routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.Stats)
	r.POST("/reload", h.Reload)
	r.POST("/ask", h.Ask)
}

// Stats returns the number of sections available for questions
func (h *Handler) Stats(c *gin.Context) {
	count, err := h.assistant.SectionsCount(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, domain.StatsResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.StatsResponse{
		Success:       true,
		SectionsCount: domain.Count(count),
	})
}

// Reload relearns the documentation folder
func (h *Handler) Reload(c *gin.Context) {
	res, err := h.assistant.Reload(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, domain.ReloadResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.ReloadResponse{
		Success:        true,
		DocumentsCount: domain.Count(res.DocumentsCount),
		SectionsCount:  domain.Count(res.SectionsCount),
	})
}

// Ask answers a question about the documentation
func (h *Handler) Ask(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		c.Error(err)
		c.JSON(http.StatusBadRequest, domain.AskResponse{Error: err.Error()})
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Question)
	if errors.Is(err, domain.ErrEmptyQuestion) {
		c.JSON(http.StatusOK, domain.AskResponse{Error: "Question vide"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, domain.AskResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.AskResponse{Success: true, Answer: answer})
}
