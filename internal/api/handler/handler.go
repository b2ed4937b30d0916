package handler

import (
	"context"
	"log/slog"

	"github.com/samber/mo"

	"github.com/cuongbtq/settlement-pipeline/internal/artifact"
	"github.com/cuongbtq/settlement-pipeline/internal/domain"
	"github.com/cuongbtq/settlement-pipeline/internal/publisher"
	"github.com/cuongbtq/settlement-pipeline/internal/store"
)

// RecordStore is the persistence the request handlers rely on
type RecordStore interface {
	Create(ctx context.Context, rec *domain.Record) error
	GetByID(ctx context.Context, id int64) (mo.Option[*domain.Record], error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	List(ctx context.Context, filter store.RecordFilter) ([]domain.Record, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*domain.Stats, error)
}

// Publisher enqueues document jobs for saved records
type Publisher interface {
	Publish(ctx context.Context, rec *domain.Record) publisher.Result
}

// HealthChecker reports database health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConnectionChecker reports broker connectivity
type ConnectionChecker interface {
	IsConnected() bool
}

// Dependencies holds all dependencies needed by handlers. Queue may be nil
// when the broker was unreachable at startup.
type Dependencies struct {
	Logger    *slog.Logger
	Store     RecordStore
	Publisher Publisher
	Artifacts artifact.Store
	Database  HealthChecker
	Queue     ConnectionChecker
}

// RequestHandler handles settlement request HTTP requests
type RequestHandler struct {
	logger    *slog.Logger
	store     RecordStore
	publisher Publisher
	artifacts artifact.Store
}

// NewRequestHandler creates a new RequestHandler instance
func NewRequestHandler(deps *Dependencies) *RequestHandler {
	return &RequestHandler{
		logger:    deps.Logger,
		store:     deps.Store,
		publisher: deps.Publisher,
		artifacts: deps.Artifacts,
	}
}

// HealthHandler serves the health endpoints
type HealthHandler struct {
	service  string
	database HealthChecker
	queue    ConnectionChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(service string, deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		service:  service,
		database: deps.Database,
		queue:    deps.Queue,
	}
}
