package ports

import (
	"context"
	"io"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// ResponseCache maps normalized query keys to cached responses with expiry.
// Implementations set the cache-hit flag on anything they serve and never
// return an expired or undecodable entry.
type ResponseCache interface {
	Key(text string) string
	Get(ctx context.Context, key string) (*domain.QueryResponse, bool)
	Put(ctx context.Context, key string, response *domain.QueryResponse)
}

// HistoryLog is the append-only, time-ordered record of processed queries.
type HistoryLog interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// DocumentStore persists document records through their lifecycle and
// serves the processed corpus to unstructured retrieval.
type DocumentStore interface {
	Create(ctx context.Context, doc *domain.DocumentRecord) error
	GetByID(ctx context.Context, id string) (*domain.DocumentRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveProcessed(ctx context.Context, doc *domain.DocumentRecord) error
	ListReady(ctx context.Context) ([]domain.DocumentRecord, error)
	Stats(ctx context.Context) (domain.CorpusStats, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from stored document bytes by
// file-type-specific rule.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, fileType string) (string, error)
}

// Chunker splits extracted text into search units using a strategy
// selected by file type.
type Chunker interface {
	Split(text, fileType string) []string
}

// Embedder is an optional capability; unstructured retrieval works
// correctly with it entirely absent.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// RowExecutor runs a generated query expression against a tabular data
// source. Execution is a pluggable collaborator: the demo executor returns
// canned rows consistent with the template shape, the Postgres executor
// runs the SQL verbatim.
type RowExecutor interface {
	Execute(ctx context.Context, template domain.TemplateID, sql string) ([]domain.ResultRow, error)
}

// SchemaGraph mirrors schema snapshots into a graph store for
// relationship exploration. Optional; nil-safe at the call site.
type SchemaGraph interface {
	MirrorSchema(ctx context.Context, schema *domain.SchemaDescription) error
}
