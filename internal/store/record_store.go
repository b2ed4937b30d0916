package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
)

const recordColumns = `
	id, title, person, company, category, amount, owner,
	billing_month, premium_start, premium_end, hours, comment,
	status, created_at, updated_at`

// RecordStore persists settlement request records in PostgreSQL
type RecordStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewRecordStore creates a new RecordStore instance
func NewRecordStore(db *sqlx.DB, logger *slog.Logger) *RecordStore {
	return &RecordStore{
		db:     db,
		logger: logger,
	}
}

// RecordFilter narrows List results. Empty fields are not applied.
type RecordFilter struct {
	Owner    string
	Status   domain.Status
	PageSize int
	Cursor   *RecordCursor
}

// RecordCursor is the keyset position of the last row of the previous page
type RecordCursor struct {
	CreatedAt time.Time
	ID        int64
}

// Create inserts rec and fills in the store-assigned id, timestamps and status
func (s *RecordStore) Create(ctx context.Context, rec *domain.Record) error {
	query := `
		INSERT INTO settlement_requests (
			title, person, company, category, amount, owner,
			billing_month, premium_start, premium_end, hours, comment, status
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
		RETURNING id, created_at, updated_at
	`

	if rec.Status == "" {
		rec.Status = domain.StatusWaiting
	}
	if rec.Hours == nil {
		rec.Hours = domain.Hours{}
	}

	err := s.db.QueryRowxContext(
		ctx,
		query,
		rec.Title,
		rec.Person,
		rec.Company,
		rec.Category,
		rec.Amount,
		rec.Owner,
		rec.BillingMonth,
		rec.PremiumStart,
		rec.PremiumEnd,
		rec.Hours,
		rec.Comment,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	s.logger.Info("Record created",
		slog.Int64("record_id", rec.ID),
		slog.String("owner", rec.Owner),
	)

	return nil
}

// GetByID returns the record, or None when the id does not exist
func (s *RecordStore) GetByID(ctx context.Context, id int64) (mo.Option[*domain.Record], error) {
	query := `SELECT` + recordColumns + `
		FROM settlement_requests
		WHERE id = $1
	`

	var rec domain.Record
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*domain.Record](), nil
		}
		return mo.None[*domain.Record](), fmt.Errorf("failed to get record: %w", err)
	}

	return mo.Some(&rec), nil
}

// UpdateStatus overwrites the status of one record. Last writer wins.
func (s *RecordStore) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	query := `
		UPDATE settlement_requests
		SET status = $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update record status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRecordNotFound
	}

	s.logger.Info("Record status updated",
		slog.Int64("record_id", id),
		slog.String("status", status.String()),
	)

	return nil
}

// List returns up to PageSize+1 records ordered newest first, so callers can
// tell whether another page exists
func (s *RecordStore) List(ctx context.Context, filter RecordFilter) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + `
		FROM settlement_requests
		WHERE 1=1
	`
	args := []any{}
	argIdx := 1

	if filter.Owner != "" {
		query += fmt.Sprintf(" AND owner = $%d", argIdx)
		args = append(args, filter.Owner)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var records []domain.Record
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// ListStale returns records that have held status since before olderThan
func (s *RecordStore) ListStale(ctx context.Context, status domain.Status, olderThan time.Time, limit int) ([]domain.Record, error) {
	query := `SELECT` + recordColumns + `
		FROM settlement_requests
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC, id ASC
		LIMIT $3
	`

	var records []domain.Record
	if err := s.db.SelectContext(ctx, &records, query, status, olderThan, limit); err != nil {
		return nil, fmt.Errorf("failed to list stale records: %w", err)
	}

	return records, nil
}

// Delete removes a record
func (s *RecordStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM settlement_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRecordNotFound
	}

	s.logger.Info("Record deleted", slog.Int64("record_id", id))
	return nil
}

// Stats aggregates record counts per status and amount totals
func (s *RecordStore) Stats(ctx context.Context) (*domain.Stats, error) {
	var rows []struct {
		Status domain.Status `db:"status"`
		Count  int           `db:"count"`
		Amount float64       `db:"amount"`
	}

	query := `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		FROM settlement_requests
		GROUP BY status
	`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}

	stats := &domain.Stats{ByStatus: make(map[domain.Status]int, len(rows))}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		stats.TotalAmount += row.Amount
	}
	stats.Finalize()

	return stats, nil
}
