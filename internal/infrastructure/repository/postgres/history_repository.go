package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// HistoryRepository is the append-only query history. Entries are never
// updated or deleted.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026081002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS query_history (
	query_id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	query_type TEXT NOT NULL,
	processing_time_ms DOUBLE PRECISION NOT NULL,
	cache_hit BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_query_history_created_at ON query_history(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO query_history (query_id, query, query_type, processing_time_ms, cache_hit, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, entry.ID, entry.Query, string(entry.Class), entry.ProcessingTimeMS, entry.CacheHit, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT query_id, query, query_type, processing_time_ms, cache_hit, created_at
FROM query_history
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var class string
		if err := rows.Scan(&entry.ID, &entry.Query, &class, &entry.ProcessingTimeMS, &entry.CacheHit, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.Class = domain.QueryClass(class)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
