package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026081001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	file_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	chunks JSONB NOT NULL DEFAULT '[]'::jsonb,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	processed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, filename, file_type, storage_path, status, error_message, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		doc.ID, doc.Filename, doc.FileType, doc.StoragePath, string(doc.Status), doc.Error, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, file_type, storage_path, content, chunks, chunk_count, metadata, status, error_message, created_at, processed_at
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3
WHERE id = $1
`, id, string(status), errMessage)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document status affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update document status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *DocumentRepository) SaveProcessed(ctx context.Context, doc *domain.DocumentRecord) error {
	chunksJSON, err := json.Marshal(doc.Chunks)
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET content = $2, chunks = $3, chunk_count = $4, metadata = $5, status = $6, error_message = '', processed_at = $7
WHERE id = $1
`, doc.ID, doc.Content, chunksJSON, doc.ChunkCount, metadataJSON, string(doc.Status), doc.ProcessedAt)
	if err != nil {
		return fmt.Errorf("save processed document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save processed affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "save processed document", fmt.Errorf("id %s", doc.ID))
	}
	return nil
}

func (r *DocumentRepository) ListReady(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, file_type, storage_path, content, chunks, chunk_count, metadata, status, error_message, created_at, processed_at
FROM documents
WHERE status = $1
ORDER BY created_at
`, string(domain.StatusReady))
	if err != nil {
		return nil, fmt.Errorf("list ready documents: %w", err)
	}
	defer rows.Close()

	var out []domain.DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ready documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) Stats(ctx context.Context) (domain.CorpusStats, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT file_type, COUNT(*), COALESCE(SUM(chunk_count), 0), COALESCE(SUM((metadata->>'word_count')::int), 0)
FROM documents
WHERE status = $1
GROUP BY file_type
`, string(domain.StatusReady))
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("corpus stats: %w", err)
	}
	defer rows.Close()

	stats := domain.CorpusStats{FileTypes: make(map[string]int)}
	for rows.Next() {
		var fileType string
		var count, chunks, words int
		if err := rows.Scan(&fileType, &count, &chunks, &words); err != nil {
			return domain.CorpusStats{}, fmt.Errorf("scan corpus stats: %w", err)
		}
		stats.FileTypes[fileType] = count
		stats.TotalDocuments += count
		stats.TotalChunks += chunks
		stats.TotalWords += words
	}
	if err := rows.Err(); err != nil {
		return domain.CorpusStats{}, fmt.Errorf("iterate corpus stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	var chunksRaw, metadataRaw []byte
	var status string
	var processedAt sql.NullTime

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.FileType, &doc.StoragePath, &doc.Content,
		&chunksRaw, &doc.ChunkCount, &metadataRaw, &status, &doc.Error,
		&doc.CreatedAt, &processedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(chunksRaw, &doc.Chunks); err != nil {
		return nil, fmt.Errorf("unmarshal chunks: %w", err)
	}
	if err := json.Unmarshal(metadataRaw, &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	if processedAt.Valid {
		doc.ProcessedAt = processedAt.Time
	}
	return &doc, nil
}
