package router

import (
	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/settlement-pipeline/internal/api/handler"
)

// ServiceName is reported by the health endpoint
const ServiceName = "settlement-api-service"

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	health := handler.NewHealthHandler(ServiceName, deps)
	r.GET("/health", health.Health)
	r.GET("/health/db", health.Database)
	r.GET("/health/rabbitmq", health.RabbitMQ)

	requestHandler := handler.NewRequestHandler(deps)

	v1 := r.Group("/api/v1")
	{
		requests := v1.Group("/requests")
		{
			// POST /api/v1/requests - Save a request and queue its document
			requests.POST("", requestHandler.CreateRequest)

			// GET /api/v1/requests - List requests by owner or for payroll
			requests.GET("", requestHandler.ListRequests)

			// GET /api/v1/requests/:id - Get request details
			requests.GET("/:id", requestHandler.GetRequest)

			// PUT /api/v1/requests/:id/status?status= - Set status manually
			requests.PUT("/:id/status", requestHandler.UpdateStatus)

			// DELETE /api/v1/requests/:id - Delete a request
			requests.DELETE("/:id", requestHandler.DeleteRequest)

			// GET /api/v1/requests/:id/document - Download the latest document
			requests.GET("/:id/document", requestHandler.DownloadDocument)
		}

		v1.GET("/stats", requestHandler.GetStats)
	}

	return r
}
