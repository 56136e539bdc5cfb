package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
)

// SchemaHolder keeps the single active schema snapshot. The snapshot is
// replaced wholesale, never mutated, so readers can hold the pointer.
type SchemaHolder struct {
	mu      sync.RWMutex
	current *domain.SchemaDescription
	graph   ports.SchemaGraph
}

// NewSchemaHolder accepts an optional graph mirror; pass nil when no
// graph store is configured.
func NewSchemaHolder(graph ports.SchemaGraph) *SchemaHolder {
	return &SchemaHolder{graph: graph}
}

// Set validates and installs a snapshot from the discovery collaborator.
// Structural violations propagate: they are configuration errors, not
// query-processing faults.
func (h *SchemaHolder) Set(ctx context.Context, schema *domain.SchemaDescription) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	h.mu.Lock()
	h.current = schema
	h.mu.Unlock()

	if h.graph != nil {
		if err := h.graph.MirrorSchema(ctx, schema); err != nil {
			slog.Warn("schema_graph_mirror_failed", "error", err)
		}
	}
	return nil
}

// Current returns the active snapshot, or nil when no discovery
// collaborator has connected one.
func (h *SchemaHolder) Current() *domain.SchemaDescription {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}
