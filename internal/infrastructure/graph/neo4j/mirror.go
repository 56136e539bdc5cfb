// Package neo4j mirrors schema snapshots into a graph database so table
// relationships can be explored as nodes and edges. Mirroring is best
// effort; the query pipeline never depends on it.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

type Mirror struct {
	driver neo4j.DriverWithContext
}

func NewMirror(ctx context.Context, uri, username, password string) (*Mirror, error) {
	auth := neo4j.NoAuth()
	if username != "" {
		auth = neo4j.BasicAuth(username, password, "")
	}

	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Mirror{driver: driver}, nil
}

func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// MirrorSchema replaces the stored graph with the given snapshot. The
// mirror is wiped first so dropped tables do not linger.
func (m *Mirror) MirrorSchema(ctx context.Context, schema *domain.SchemaDescription) error {
	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `MATCH (t:Table) DETACH DELETE t`, nil); err != nil {
			return nil, fmt.Errorf("clear mirrored tables: %w", err)
		}

		for _, table := range schema.Tables {
			_, err := tx.Run(ctx, `
CREATE (t:Table {name: $name, category: $category, row_count: $row_count})
`, map[string]any{
				"name":      table.Name,
				"category":  string(table.Category),
				"row_count": table.RowCount,
			})
			if err != nil {
				return nil, fmt.Errorf("create table node %s: %w", table.Name, err)
			}
		}

		for _, rel := range schema.Relationships {
			_, err := tx.Run(ctx, `
MATCH (from:Table {name: $from}), (to:Table {name: $to})
CREATE (from)-[:REFERENCES {from_column: $from_column, to_column: $to_column, kind: $kind}]->(to)
`, map[string]any{
				"from":        rel.FromTable,
				"to":          rel.ToTable,
				"from_column": rel.FromColumn,
				"to_column":   rel.ToColumn,
				"kind":        string(rel.Kind),
			})
			if err != nil {
				return nil, fmt.Errorf("create relationship %s->%s: %w", rel.FromTable, rel.ToTable, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("mirror schema: %w", err)
	}
	return nil
}
