// Package publisher enqueues document jobs for saved records. Enqueueing is
// best-effort: the saved record is authoritative and a broker outage only
// downgrades the result to "saved, not queued".
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

// ErrNoQueue is reported when the broker was never connected
var ErrNoQueue = errors.New("job queue unavailable")

const (
	MessageQueued    = "Record saved and queued for document generation"
	MessageNotQueued = "Record saved, not queued"
)

// Queue is the job queue the publisher writes to
type Queue interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Result is informational. Err explains why Queued is false and is never
// meant to fail the caller's operation.
type Result struct {
	Queued  bool
	Message string
	Err     error
}

// Publisher enqueues jobs
type Publisher struct {
	queue  Queue
	logger *slog.Logger
}

// New creates a publisher. queue may be nil.
func New(queue Queue, logger *slog.Logger) *Publisher {
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// Publish enqueues a document job for a record that is already persisted
func (p *Publisher) Publish(ctx context.Context, rec *domain.Record) Result {
	if rec == nil || rec.ID <= 0 {
		return p.notQueued(rec, errors.New("record has no persisted id"))
	}
	if p.queue == nil {
		return p.notQueued(rec, ErrNoQueue)
	}

	body, err := domain.NewDocumentJob(rec).Encode()
	if err != nil {
		return p.notQueued(rec, fmt.Errorf("failed to encode job: %w", err))
	}

	if err := p.queue.PublishWithRetry(ctx, body, domain.JobMessageContentType); err != nil {
		return p.notQueued(rec, err)
	}

	p.logger.Info("Document job queued",
		slog.Int64("record_id", rec.ID),
		slog.String("title", rec.Title),
	)

	return Result{Queued: true, Message: MessageQueued}
}

func (p *Publisher) notQueued(rec *domain.Record, err error) Result {
	var id int64
	if rec != nil {
		id = rec.ID
	}
	p.logger.Warn("Document job not queued",
		slog.Int64("record_id", id),
		slog.Any("error", err),
	)
	return Result{Queued: false, Message: MessageNotQueued, Err: err}
}
