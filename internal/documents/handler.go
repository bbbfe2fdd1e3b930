package documents

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/shared/server/middleware"
	"legaldocs-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc         *Service
	pollLimiter *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		Svc:         svc,
		pollLimiter: newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents/:id", h.getDocument)
	rg.GET("/documents/:id/status", h.getStatus)
	rg.DELETE("/documents/:id", h.deleteDocument)
	rg.GET("/summaries", h.listSummaries)
}

func (h *Handler) upload(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	if h.Svc.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes)
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeValidation, "file exceeds the upload size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "document file is required", nil)
		return
	}
	defer file.Close()

	declaredType := c.PostForm("documentType")
	headerType := header.Header.Get("Content-Type")

	doc, err := h.Svc.Upload(c.Request.Context(), ownerID, header.Filename, declaredType, headerType, header.Size, file, middleware.RequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, userFacingMessage(err), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to store document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"success":    true,
		"documentId": doc.ID,
		"status":     doc.Status,
		"document":   toResponse(doc),
	})
}

func (h *Handler) getDocument(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "document id is required", nil)
		return
	}

	doc, err := h.Svc.Get(c.Request.Context(), ownerID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch document", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"document": toResponse(doc),
	})
}

func (h *Handler) getStatus(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "document id is required", nil)
		return
	}

	if !h.pollLimiter.Allow(ownerID, documentID) {
		c.Header("Retry-After", strconv.Itoa(h.pollLimiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "polling too frequently, slow down", nil)
		return
	}

	doc, err := h.Svc.Get(c.Request.Context(), ownerID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch status", nil)
		}
		return
	}

	resp := gin.H{
		"success": true,
		"status":  doc.Status,
	}
	if doc.Status == StatusFailed && doc.ErrorMessage != nil {
		resp["error"] = *doc.ErrorMessage
	}
	respond.OK(c, resp)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "document id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), ownerID, documentID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to delete document", nil)
		}
		return
	}

	respond.OK(c, gin.H{"success": true, "deletedAt": time.Now().UTC()})
}

func (h *Handler) listSummaries(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	docs, err := h.Svc.ListSummaries(c.Request.Context(), ownerID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list summaries", nil)
		return
	}

	items := make([]gin.H, 0, len(docs))
	for _, d := range docs {
		items = append(items, toSummaryItem(d))
	}

	respond.OK(c, gin.H{"success": true, "summaries": items})
}

// userFacingMessage strips the sentinel prefix from validation errors so the
// client sees only the human-readable part.
func userFacingMessage(err error) string {
	msg := err.Error()
	const prefix = "invalid input: "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
