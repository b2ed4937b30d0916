package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS settlement_requests (
	id            BIGSERIAL PRIMARY KEY,
	title         TEXT NOT NULL,
	person        TEXT NOT NULL,
	company       TEXT NOT NULL,
	category      TEXT NOT NULL,
	amount        NUMERIC(14, 2) NOT NULL DEFAULT 0,
	owner         TEXT NOT NULL DEFAULT '',
	billing_month DATE,
	premium_start DATE,
	premium_end   DATE,
	hours         JSONB NOT NULL DEFAULT '{}'::jsonb,
	comment       TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'Waiting'
	              CHECK (status IN ('Waiting', 'Processing', 'Completed', 'Failed', 'Rejected')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_settlement_requests_owner_created
	ON settlement_requests (owner, created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_settlement_requests_status_updated
	ON settlement_requests (status, updated_at);`

// EnsureSchema creates the records table and its indexes if they are missing
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
