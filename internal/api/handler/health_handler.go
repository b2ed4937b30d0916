package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

// Database handles GET /health/db
func (h *HealthHandler) Database(c *gin.Context) {
	if h.database == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	if err := h.database.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

// RabbitMQ handles GET /health/rabbitmq
func (h *HealthHandler) RabbitMQ(c *gin.Context) {
	if h.queue == nil || !h.queue.IsConnected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"rabbitmq": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"rabbitmq": "connected",
	})
}
