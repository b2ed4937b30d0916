package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to SETTLEMENT_TEST_DATABASE_URL and starts from an
// empty table. Tests are skipped when the variable is unset.
func newTestStore(t *testing.T) *RecordStore {
	t.Helper()

	dsn := os.Getenv("SETTLEMENT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SETTLEMENT_TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewRecordStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))
	_, err = db.ExecContext(ctx, "TRUNCATE settlement_requests RESTART IDENTITY")
	require.NoError(t, err)

	return s
}

func sampleRecord(owner string) *domain.Record {
	return &domain.Record{
		Title:        "March settlement",
		Person:       "Anna Nowak",
		Company:      "Transport Sp. z o.o.",
		Category:     "truck",
		Amount:       12345.67,
		Owner:        owner,
		BillingMonth: mo.Some(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		PremiumStart: mo.Some(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		PremiumEnd:   mo.None[time.Time](),
		Hours:        domain.Hours{"mon": 8, "tue": 7.5},
		Comment:      "night shifts included",
	}
}

func TestRecordStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("anna")
	require.NoError(t, s.Create(ctx, rec))
	assert.Positive(t, rec.ID)
	assert.Equal(t, domain.StatusWaiting, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, got.IsPresent())

	loaded := got.MustGet()
	assert.Equal(t, rec.Title, loaded.Title)
	assert.Equal(t, rec.Amount, loaded.Amount)
	assert.Equal(t, rec.Hours, loaded.Hours)
	assert.True(t, loaded.PremiumStart.IsPresent())
	assert.False(t, loaded.PremiumEnd.IsPresent())
	assert.Equal(t, domain.StatusWaiting, loaded.Status)
}

func TestRecordStore_GetByID_Absent(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.False(t, got.IsPresent())
}

func TestRecordStore_UpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("anna")
	require.NoError(t, s.Create(ctx, rec))

	require.NoError(t, s.UpdateStatus(ctx, rec.ID, domain.StatusProcessing))
	require.NoError(t, s.UpdateStatus(ctx, rec.ID, domain.StatusCompleted))

	got, err := s.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.MustGet().Status)

	err = s.UpdateStatus(ctx, 9999, domain.StatusProcessing)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestRecordStore_ListPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(ctx, sampleRecord("anna")))
	}
	require.NoError(t, s.Create(ctx, sampleRecord("piotr")))

	page, err := s.List(ctx, RecordFilter{Owner: "anna", PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 3) // one extra row signals another page
	assert.Greater(t, page[0].ID, page[1].ID)

	last := page[1]
	next, err := s.List(ctx, RecordFilter{
		Owner:    "anna",
		PageSize: 2,
		Cursor:   &RecordCursor{CreatedAt: last.CreatedAt, ID: last.ID},
	})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Less(t, next[0].ID, last.ID)

	all, err := s.List(ctx, RecordFilter{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRecordStore_StatsAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleRecord("anna")
	b := sampleRecord("anna")
	b.Amount = 100
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))
	require.NoError(t, s.UpdateStatus(ctx, b.ID, domain.StatusFailed))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.StatusWaiting])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusFailed])
	assert.InDelta(t, 12445.67, stats.TotalAmount, 0.001)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), domain.ErrRecordNotFound)
}

func TestRecordStore_ListStale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("anna")
	require.NoError(t, s.Create(ctx, rec))
	require.NoError(t, s.UpdateStatus(ctx, rec.ID, domain.StatusProcessing))

	stale, err := s.ListStale(ctx, domain.StatusProcessing, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, rec.ID, stale[0].ID)

	fresh, err := s.ListStale(ctx, domain.StatusProcessing, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}
