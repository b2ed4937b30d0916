package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/mo"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

const (
	defaultPrefetchCount = 1
	defaultJobTimeout    = 2 * time.Minute
)

// Broker is the job queue side the worker consumes from
type Broker interface {
	SetPrefetch(count int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// RecordStore is the subset of the record store the worker needs
type RecordStore interface {
	GetByID(ctx context.Context, id int64) (mo.Option[*domain.Record], error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
}

// Renderer produces the document artifact for a record
type Renderer interface {
	Render(ctx context.Context, rec *domain.Record) (string, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Store         RecordStore
	Renderer      Renderer
	Broker        Broker
	PrefetchCount int
	JobTimeout    time.Duration
}

// Worker consumes document jobs one at a time
type Worker struct {
	logger        *slog.Logger
	store         RecordStore
	renderer      Renderer
	broker        Broker
	prefetchCount int
	jobTimeout    time.Duration
	workerID      string

	mu       sync.Mutex
	stopped  bool
	done     chan struct{} // closed when Start returns, nil before Start
	stopChan chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = defaultPrefetchCount
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	return &Worker{
		logger:        cfg.Logger,
		store:         cfg.Store,
		renderer:      cfg.Renderer,
		broker:        cfg.Broker,
		prefetchCount: prefetch,
		jobTimeout:    timeout,
		workerID:      "settlement-worker-" + uuid.NewString(),
		stopChan:      make(chan struct{}),
	}
}

// ID returns the worker id, also used as the consumer tag
func (w *Worker) ID() string {
	return w.workerID
}

// Start consumes until ctx is canceled, Stop is called or the broker closes
// the delivery channel. The last case returns ErrDeliveriesClosed. Start is
// called once; after Stop it returns nil without consuming.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	w.done = done
	w.mu.Unlock()
	defer close(done)

	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("prefetch_count", w.prefetchCount),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	return w.run(ctx, deliveries)
}

// Stop ends the loop after the in-flight message, if any, is acknowledged
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.stopChan)
	}
	done := w.done
	w.mu.Unlock()

	if done != nil {
		<-done
	}
	w.logger.Info("Worker stopped")
}
