package ports

import (
	"context"
	"io"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// QueryService is the inbound contract for free-text query processing.
// It is the sole entry point the HTTP and MCP adapters consume.
type QueryService interface {
	ProcessQuery(ctx context.Context, text string) (*domain.QueryResponse, error)
	GetSuggestions(ctx context.Context, partial string) []string
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.DocumentRecord, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// SchemaRegistry holds the single active schema snapshot supplied by the
// external discovery collaborator.
type SchemaRegistry interface {
	Set(ctx context.Context, schema *domain.SchemaDescription) error
	Current() *domain.SchemaDescription
}
