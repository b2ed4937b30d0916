package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/mo"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// memoryStore keeps records in a map and logs every status write
type memoryStore struct {
	mu      sync.Mutex
	records map[int64]*domain.Record
	writes  []domain.Status

	GetByIDFunc      func(ctx context.Context, id int64) (mo.Option[*domain.Record], error)
	UpdateStatusFunc func(ctx context.Context, id int64, status domain.Status) error
}

func newMemoryStore(records ...*domain.Record) *memoryStore {
	s := &memoryStore{records: make(map[int64]*domain.Record)}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (mo.Option[*domain.Record], error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return mo.None[*domain.Record](), nil
	}
	cp := *rec
	return mo.Some(&cp), nil
}

func (s *memoryStore) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	s.mu.Lock()
	s.writes = append(s.writes, status)
	s.mu.Unlock()

	if s.UpdateStatusFunc != nil {
		return s.UpdateStatusFunc(ctx, id, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	rec.Status = status
	return nil
}

func (s *memoryStore) status(id int64) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id].Status
}

func (s *memoryStore) statusWrites() []domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Status(nil), s.writes...)
}

type fakeRenderer struct {
	RenderFunc func(ctx context.Context, rec *domain.Record) (string, error)
	calls      int
}

func (r *fakeRenderer) Render(ctx context.Context, rec *domain.Record) (string, error) {
	r.calls++
	return r.RenderFunc(ctx, rec)
}

type fakeBroker struct {
	SetPrefetchFunc func(count int) error
	ConsumeFunc     func(tag string) (<-chan amqp.Delivery, error)
}

func (b *fakeBroker) SetPrefetch(count int) error {
	if b.SetPrefetchFunc == nil {
		return nil
	}
	return b.SetPrefetchFunc(count)
}

func (b *fakeBroker) Consume(tag string) (<-chan amqp.Delivery, error) {
	return b.ConsumeFunc(tag)
}

// fakeAcknowledger records acknowledgments by delivery tag
type fakeAcknowledger struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *fakeAcknowledger) ackedTags() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64(nil), a.acked...)
}
