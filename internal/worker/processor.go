package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

// Process runs one job message through Processing and into Completed or
// Failed. No error escapes; everything is folded into the Outcome.
func (w *Worker) Process(ctx context.Context, body []byte) Outcome {
	msg, err := domain.DecodeJobMessage(body)
	if err != nil {
		return Outcome{Kind: OutcomeDropped, RecordID: msg.ID, Err: err}
	}
	if msg.Action != domain.ActionGenerateDocument {
		return Outcome{
			Kind:     OutcomeDropped,
			RecordID: msg.ID,
			Err:      fmt.Errorf("%w: %q", domain.ErrUnknownAction, msg.Action),
		}
	}

	w.logger.Info("Processing job",
		slog.Int64("record_id", msg.ID),
		slog.String("title", msg.Title),
		slog.String("worker_id", w.workerID),
	)

	if err := w.store.UpdateStatus(ctx, msg.ID, domain.StatusProcessing); err != nil {
		return w.fail(ctx, msg.ID, fmt.Errorf("failed to mark processing: %w", err))
	}

	found, err := w.store.GetByID(ctx, msg.ID)
	if err != nil {
		return w.fail(ctx, msg.ID, fmt.Errorf("failed to load record: %w", err))
	}
	rec, ok := found.Get()
	if !ok {
		return Outcome{Kind: OutcomeNotFound, RecordID: msg.ID}
	}

	location, err := w.render(ctx, rec)
	if err != nil {
		return w.fail(ctx, msg.ID, fmt.Errorf("failed to render document: %w", err))
	}

	if err := w.store.UpdateStatus(ctx, msg.ID, domain.StatusCompleted); err != nil {
		return w.fail(ctx, msg.ID, fmt.Errorf("failed to mark completed: %w", err))
	}

	return Outcome{Kind: OutcomeCompleted, RecordID: msg.ID, Location: location}
}

func (w *Worker) render(ctx context.Context, rec *domain.Record) (location string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return w.renderer.Render(ctx, rec)
}

// fail records Failed on a best-effort basis. A record deleted mid-flight is
// reported as not found instead.
func (w *Worker) fail(ctx context.Context, id int64, cause error) Outcome {
	if errors.Is(cause, domain.ErrRecordNotFound) {
		return Outcome{Kind: OutcomeNotFound, RecordID: id}
	}

	if err := w.store.UpdateStatus(ctx, id, domain.StatusFailed); err != nil {
		w.logger.Error("Failed to update record status to Failed",
			slog.Int64("record_id", id),
			slog.Any("cause", cause),
			slog.Any("error", err),
		)
	}

	return Outcome{Kind: OutcomeFailed, RecordID: id, Err: cause}
}
