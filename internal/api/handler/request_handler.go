package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/settlement-pipeline/internal/api/dto"
	"github.com/cuongbtq/settlement-pipeline/internal/artifact"
	"github.com/cuongbtq/settlement-pipeline/internal/domain"
	"github.com/cuongbtq/settlement-pipeline/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseID reads the :id path parameter
func (h *RequestHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// loadRecord fetches the record or writes the 404/500 response
func (h *RequestHandler) loadRecord(c *gin.Context, id int64) (*domain.Record, bool) {
	found, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get record", slog.Int64("record_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get request",
		})
		return nil, false
	}

	rec, ok := found.Get()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Request not found",
		})
		return nil, false
	}
	return rec, true
}

// CreateRequest handles POST /api/v1/requests
// Saves the record first, then queues document generation on a best-effort basis
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	rec, err := req.ToRecord()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if err := h.store.Create(c.Request.Context(), rec); err != nil {
		h.logger.Error("Failed to create record", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create request",
		})
		return
	}

	result := h.publisher.Publish(c.Request.Context(), rec)

	c.JSON(http.StatusCreated, dto.CreateRequestResponse{
		Status:    result.Message,
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Queued:    result.Queued,
	})
}

// GetRequest handles GET /api/v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rec, ok := h.loadRecord(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewRequestDTO(rec))
}

// ListRequests handles GET /api/v1/requests
// Users see their own records, payroll sees everything
func (h *RequestHandler) ListRequests(c *gin.Context) {
	var req dto.ListRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.Role == "" {
		req.Role = dto.RoleUser
	}

	filter := store.RecordFilter{}
	switch req.Role {
	case dto.RolePayroll:
		filter.Owner = req.Owner
	case dto.RoleUser:
		if req.Owner == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "owner is required for role user",
			})
			return
		}
		filter.Owner = req.Owner
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("role must be %s or %s", dto.RoleUser, dto.RolePayroll),
		})
		return
	}

	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		filter.Status = status
	}

	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}

	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	filter.PageSize = req.PageSize

	cursor, err := DecodeRecordCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}
	filter.Cursor = cursor

	records, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list requests",
		})
		return
	}

	hasMore := len(records) > req.PageSize
	if hasMore {
		records = records[:req.PageSize]
	}

	resp := dto.ListRequestsResponse{Requests: make([]dto.RequestDTO, len(records))}
	for i := range records {
		resp.Requests[i] = dto.NewRequestDTO(&records[i])
	}

	if hasMore {
		last := records[len(records)-1]
		resp.NextCursor = EncodeRecordCursor(&store.RecordCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PUT /api/v1/requests/:id/status?status=
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	status, err := domain.ParseStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"allowed": domain.AllStatuses,
		})
		return
	}

	rec, ok := h.loadRecord(c, id)
	if !ok {
		return
	}

	if err := h.store.UpdateStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Request not found",
			})
			return
		}
		h.logger.Error("Failed to update status", slog.Int64("record_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update status",
		})
		return
	}

	h.logger.Info("Record status changed",
		slog.Int64("record_id", id),
		slog.String("old_status", rec.Status.String()),
		slog.String("new_status", status.String()),
	)

	c.JSON(http.StatusOK, dto.UpdateStatusResponse{
		Message:   "Status updated",
		ID:        id,
		OldStatus: rec.Status.String(),
		NewStatus: status.String(),
	})
}

// DeleteRequest handles DELETE /api/v1/requests/:id
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Request not found",
			})
			return
		}
		h.logger.Error("Failed to delete record", slog.Int64("record_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete request",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request deleted",
		"id":      id,
	})
}

// DownloadDocument handles GET /api/v1/requests/:id/document
// Streams the newest artifact of the record
func (h *RequestHandler) DownloadDocument(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rec, ok := h.loadRecord(c, id)
	if !ok {
		return
	}

	latest, err := artifact.Latest(c.Request.Context(), h.artifacts, id)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":  "Document not found",
				"status": rec.Status.String(),
			})
			return
		}
		h.logger.Error("Failed to find document", slog.Int64("record_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to find document",
		})
		return
	}

	body, err := h.artifacts.Open(c.Request.Context(), latest)
	if err != nil {
		h.logger.Error("Failed to open document", slog.Int64("record_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to open document",
		})
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, latest.Size, artifact.ContentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, latest.Name),
	})
}

// GetStats handles GET /api/v1/stats
func (h *RequestHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats",
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}
