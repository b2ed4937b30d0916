package worker

import (
	"context"
	"errors"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed means the broker closed the consumer channel
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// run is the receive, process, acknowledge loop
func (w *Worker) run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Worker loop stopping - stop requested")
			return nil

		case <-ctx.Done():
			w.logger.Info("Worker loop stopping - context canceled")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return ErrDeliveriesClosed
			}
			w.handle(ctx, delivery)
		}
	}
}

// handle processes one delivery and acknowledges it whatever the outcome.
// Processing is detached from shutdown so a message is never left halfway.
func (w *Worker) handle(ctx context.Context, delivery amqp.Delivery) {
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.jobTimeout)
	defer cancel()

	outcome := w.Process(jobCtx, delivery.Body)
	w.logOutcome(outcome, delivery.DeliveryTag)

	if err := delivery.Ack(false); err != nil {
		w.logger.Error("Failed to ACK message",
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
			slog.Int64("record_id", outcome.RecordID),
			slog.Any("error", err),
		)
	}
}

func (w *Worker) logOutcome(o Outcome, tag uint64) {
	attrs := []any{
		slog.String("outcome", o.Kind.String()),
		slog.Int64("record_id", o.RecordID),
		slog.Uint64("delivery_tag", tag),
	}

	switch o.Kind {
	case OutcomeCompleted:
		w.logger.Info("Job completed", append(attrs, slog.String("location", o.Location))...)
	case OutcomeNotFound:
		w.logger.Info("Record not found, skipping", attrs...)
	case OutcomeFailed:
		w.logger.Error("Job failed", append(attrs, slog.Any("error", o.Err))...)
	default:
		w.logger.Warn("Job dropped", append(attrs, slog.Any("error", o.Err))...)
	}
}
