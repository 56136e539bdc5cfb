package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// RowExecutor runs generated SQL verbatim against a live database and
// materializes rows dynamically, since template projections differ.
type RowExecutor struct {
	db *sql.DB
}

func NewRowExecutor(db *sql.DB) *RowExecutor {
	return &RowExecutor{db: db}
}

func (e *RowExecutor) Execute(ctx context.Context, _ domain.TemplateID, query string) ([]domain.ResultRow, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []domain.ResultRow
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(domain.ResultRow, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// normalizeValue keeps scanned values JSON-friendly. Drivers return
// []byte for text columns scanned into any.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
