package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
)

// SupportedExtensions is the ingestion whitelist. Anything else is
// rejected before any state is touched.
var SupportedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
	".md":   {},
	".csv":  {},
	".json": {},
	".xlsx": {},
}

type IngestDocumentUseCase struct {
	store   ports.DocumentStore
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	store ports.DocumentStore,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		store:   store,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.DocumentRecord, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := SupportedExtensions[ext]; !ok {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "upload document",
			fmt.Errorf("extension %q", ext))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.DocumentRecord{
		ID:          id,
		Filename:    filename,
		FileType:    ext,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}
	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
