package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/mo"

	"github.com/cuongbtq/settlement-pipeline/internal/api/handler"
	"github.com/cuongbtq/settlement-pipeline/internal/api/router"
	"github.com/cuongbtq/settlement-pipeline/internal/artifact"
	"github.com/cuongbtq/settlement-pipeline/internal/domain"
	"github.com/cuongbtq/settlement-pipeline/internal/publisher"
	"github.com/cuongbtq/settlement-pipeline/internal/store"
)

var errNotImplemented = errors.New("not implemented")

type fakeStore struct {
	CreateFunc       func(ctx context.Context, rec *domain.Record) error
	GetByIDFunc      func(ctx context.Context, id int64) (mo.Option[*domain.Record], error)
	UpdateStatusFunc func(ctx context.Context, id int64, status domain.Status) error
	ListFunc         func(ctx context.Context, filter store.RecordFilter) ([]domain.Record, error)
	DeleteFunc       func(ctx context.Context, id int64) error
	StatsFunc        func(ctx context.Context) (*domain.Stats, error)
}

func (f *fakeStore) Create(ctx context.Context, rec *domain.Record) error {
	if f.CreateFunc == nil {
		return errNotImplemented
	}
	return f.CreateFunc(ctx, rec)
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (mo.Option[*domain.Record], error) {
	if f.GetByIDFunc == nil {
		return mo.None[*domain.Record](), errNotImplemented
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if f.UpdateStatusFunc == nil {
		return errNotImplemented
	}
	return f.UpdateStatusFunc(ctx, id, status)
}

func (f *fakeStore) List(ctx context.Context, filter store.RecordFilter) ([]domain.Record, error) {
	if f.ListFunc == nil {
		return nil, errNotImplemented
	}
	return f.ListFunc(ctx, filter)
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if f.DeleteFunc == nil {
		return errNotImplemented
	}
	return f.DeleteFunc(ctx, id)
}

func (f *fakeStore) Stats(ctx context.Context) (*domain.Stats, error) {
	if f.StatsFunc == nil {
		return nil, errNotImplemented
	}
	return f.StatsFunc(ctx)
}

func recordLookup(records ...*domain.Record) func(context.Context, int64) (mo.Option[*domain.Record], error) {
	return func(_ context.Context, id int64) (mo.Option[*domain.Record], error) {
		for _, r := range records {
			if r.ID == id {
				return mo.Some(r), nil
			}
		}
		return mo.None[*domain.Record](), nil
	}
}

type fakePublisher struct {
	result    publisher.Result
	published []int64
}

func (p *fakePublisher) Publish(_ context.Context, rec *domain.Record) publisher.Result {
	p.published = append(p.published, rec.ID)
	return p.result
}

type fakeHealth struct{ err error }

func (h fakeHealth) HealthCheck(context.Context) error { return h.err }

type fakeConn bool

func (c fakeConn) IsConnected() bool { return bool(c) }

type testServer struct {
	engine    *gin.Engine
	store     *fakeStore
	publisher *fakePublisher
	artifacts *artifact.FileStore
}

func newTestServer(dir string) *testServer {
	gin.SetMode(gin.TestMode)

	s := &testServer{
		store:     &fakeStore{},
		publisher: &fakePublisher{result: publisher.Result{Queued: true, Message: publisher.MessageQueued}},
		artifacts: artifact.NewFileStore(dir),
	}
	s.engine = router.SetupRouter(&handler.Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})),
		Store:     s.store,
		Publisher: s.publisher,
		Artifacts: s.artifacts,
		Database:  fakeHealth{},
		Queue:     fakeConn(true),
	})
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}
