package translate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/shared/server/respond"
)

// Handler exposes the translation endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches translation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/translate", h.translate)
}

type request struct {
	// Text is either a plain string or a structured summary value.
	Text           json.RawMessage `json:"text"`
	TargetLanguage string          `json:"targetLanguage"`
}

func (h *Handler) translate(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	if len(req.Text) == 0 || string(req.Text) == "null" {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "text is required", nil)
		return
	}

	var value any
	if err := json.Unmarshal(req.Text, &value); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "text must be a string or structured summary", nil)
		return
	}

	translated, err := h.Svc.Translate(c.Request.Context(), value, ParseLanguage(req.TargetLanguage))
	if err != nil {
		var trErr *Error
		if errors.As(err, &trErr) {
			respond.Error(c, http.StatusBadGateway, "TRANSLATION_ERROR", trErr.Cause, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "translation failed", nil)
		return
	}

	respond.OK(c, gin.H{
		"success":        true,
		"translatedText": translated,
	})
}
