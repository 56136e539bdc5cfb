package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// DocumentStore keeps the corpus in process memory for demo mode.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]*domain.DocumentRecord
	order []string
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*domain.DocumentRecord)}
}

func (s *DocumentStore) Create(_ context.Context, doc *domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "create document", fmt.Errorf("duplicate id %s", doc.ID))
	}
	copied := *doc
	s.docs[doc.ID] = &copied
	s.order = append(s.order, doc.ID)
	return nil
}

func (s *DocumentStore) GetByID(_ context.Context, id string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id %s", id))
	}
	copied := *doc
	return &copied, nil
}

func (s *DocumentStore) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "update document status", fmt.Errorf("id %s", id))
	}
	doc.Status = status
	doc.Error = errMessage
	return nil
}

func (s *DocumentStore) SaveProcessed(_ context.Context, doc *domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[doc.ID]; !ok {
		return domain.WrapError(domain.ErrNotFound, "save processed document", fmt.Errorf("id %s", doc.ID))
	}
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

func (s *DocumentStore) ListReady(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DocumentRecord, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		if doc.Status == domain.StatusReady {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (s *DocumentStore) Stats(_ context.Context) (domain.CorpusStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.CorpusStats{FileTypes: make(map[string]int)}
	for _, id := range s.order {
		doc := s.docs[id]
		if doc.Status != domain.StatusReady {
			continue
		}
		stats.TotalDocuments++
		stats.FileTypes[doc.FileType]++
		stats.TotalChunks += doc.ChunkCount
		stats.TotalWords += doc.Metadata.WordCount
	}
	return stats, nil
}
