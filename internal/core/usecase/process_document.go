package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
)

// ProcessDocumentUseCase runs the ingestion pipeline for one stored
// document: extract, chunk, count metadata, optionally embed, persist.
type ProcessDocumentUseCase struct {
	store     ports.DocumentStore
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder // optional; nil disables embeddings
}

func NewProcessDocumentUseCase(
	store ports.DocumentStore,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		store:     store,
		storage:   storage,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.store.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.store.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.store.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	content, err := uc.readSource(ctx, doc.StoragePath)
	if err != nil {
		return err
	}

	text, err := uc.extractor.Extract(ctx, content, doc.FileType)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	pieces := uc.chunker.Split(text, doc.FileType)
	if len(pieces) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, domain.Chunk{Index: i, Text: piece})
	}

	if uc.embedder != nil {
		if err := uc.attachEmbeddings(ctx, chunks, pieces); err != nil {
			return err
		}
	}

	doc.Content = text
	doc.Chunks = chunks
	doc.ChunkCount = len(chunks)
	doc.Metadata = domain.ExtractStats(text)
	doc.Status = domain.StatusReady
	doc.ProcessedAt = time.Now().UTC()

	if err := uc.store.SaveProcessed(ctx, doc); err != nil {
		return fmt.Errorf("save processed document: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) readSource(ctx context.Context, storagePath string) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	return content, nil
}

func (uc *ProcessDocumentUseCase) attachEmbeddings(ctx context.Context, chunks []domain.Chunk, pieces []string) error {
	vectors, err := uc.embedder.Embed(ctx, pieces)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.WrapError(domain.ErrInvalidInput, "embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}
