package documents

import "github.com/gin-gonic/gin"

// toResponse shapes a document for API consumers. Internal fields such as
// the storage key and the owner id never leave the service.
func toResponse(d Document) gin.H {
	resp := gin.H{
		"id":           d.ID,
		"originalName": d.OriginalName,
		"status":       d.Status,
		"uploadedAt":   d.UploadedAt,
	}
	if d.Title != "" {
		resp["title"] = d.Title
	}
	if d.ProcessedAt != nil {
		resp["processedAt"] = *d.ProcessedAt
	}
	if d.Status == StatusCompleted && d.Summary != nil {
		resp["summary"] = d.Summary
	}
	if d.Status == StatusFailed && d.ErrorMessage != nil {
		resp["error"] = *d.ErrorMessage
	}
	return resp
}

// toSummaryItem shapes a completed document for the summaries listing.
func toSummaryItem(d Document) gin.H {
	return gin.H{
		"id":        d.ID,
		"title":     d.Title,
		"summary":   d.Summary,
		"createdAt": d.UploadedAt,
	}
}
