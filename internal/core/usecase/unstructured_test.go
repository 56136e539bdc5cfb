package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

type corpusFake struct {
	docs []domain.DocumentRecord
	err  error
}

func (f *corpusFake) Create(context.Context, *domain.DocumentRecord) error        { return nil }
func (f *corpusFake) GetByID(context.Context, string) (*domain.DocumentRecord, error) {
	return nil, domain.ErrNotFound
}
func (f *corpusFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}
func (f *corpusFake) SaveProcessed(context.Context, *domain.DocumentRecord) error { return nil }
func (f *corpusFake) ListReady(context.Context) ([]domain.DocumentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}
func (f *corpusFake) Stats(context.Context) (domain.CorpusStats, error) {
	return domain.CorpusStats{}, nil
}

func corpusDoc(id, filename, content string, chunkTexts ...string) domain.DocumentRecord {
	chunks := make([]domain.Chunk, 0, len(chunkTexts))
	for i, text := range chunkTexts {
		chunks = append(chunks, domain.Chunk{Index: i, Text: text})
	}
	return domain.DocumentRecord{
		ID:       id,
		Filename: filename,
		FileType: ".txt",
		Content:  content,
		Chunks:   chunks,
		Status:   domain.StatusReady,
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	r := NewUnstructuredRetriever(&corpusFake{}, 10)

	matches, err := r.Search(context.Background(), "python")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches on empty corpus, got %d", len(matches))
	}
}

func TestSearchScoringWeights(t *testing.T) {
	store := &corpusFake{docs: []domain.DocumentRecord{
		corpusDoc("doc-1", "python_resume.txt", "python experience", "python once"),
		corpusDoc("doc-2", "notes.txt", "python mentioned in passing", "python python"),
		corpusDoc("doc-3", "unrelated.txt", "nothing relevant", "no relevant text"),
	}}
	r := NewUnstructuredRetriever(store, 10)

	matches, err := r.Search(context.Background(), "Python")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, zero-score doc excluded, got %d", len(matches))
	}
	// doc-1: 10 (filename) + 5 (content) + 1 (chunk) = 16
	// doc-2: 5 (content) + 2 (chunk) = 7
	if matches[0].DocumentID != "doc-1" || matches[0].RelevanceScore != 16 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[1].DocumentID != "doc-2" || matches[1].RelevanceScore != 7 {
		t.Fatalf("unexpected second match: %+v", matches[1])
	}
}

func TestSearchStableOnTies(t *testing.T) {
	store := &corpusFake{docs: []domain.DocumentRecord{
		corpusDoc("doc-a", "a.txt", "golang here", "golang"),
		corpusDoc("doc-b", "b.txt", "golang there", "golang"),
	}}
	r := NewUnstructuredRetriever(store, 10)

	matches, err := r.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if matches[0].DocumentID != "doc-a" || matches[1].DocumentID != "doc-b" {
		t.Fatalf("tie must preserve corpus order, got %s then %s",
			matches[0].DocumentID, matches[1].DocumentID)
	}
}

func TestSearchKeepsTopThreeChunks(t *testing.T) {
	store := &corpusFake{docs: []domain.DocumentRecord{
		corpusDoc("doc-1", "skills.txt", "java everywhere",
			"java", "java java", "java java java", "no match", "java java java java"),
	}}
	r := NewUnstructuredRetriever(store, 10)

	matches, err := r.Search(context.Background(), "java")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	chunks := matches[0].MatchingChunks
	if len(chunks) != 3 {
		t.Fatalf("expected top 3 chunks, got %d", len(chunks))
	}
	if chunks[0].MatchScore != 4 || chunks[1].MatchScore != 3 || chunks[2].MatchScore != 2 {
		t.Fatalf("chunks not ordered by occurrence count: %+v", chunks)
	}
	if chunks[0].ChunkIndex != 4 {
		t.Fatalf("expected chunk index 4 first, got %d", chunks[0].ChunkIndex)
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	var docs []domain.DocumentRecord
	for i := 0; i < 20; i++ {
		docs = append(docs, corpusDoc("doc", "report.txt", "quarterly report", "quarterly report text"))
	}
	r := NewUnstructuredRetriever(&corpusFake{docs: docs}, 5)

	matches, err := r.Search(context.Background(), "report")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 5 {
		t.Fatalf("expected limit of 5, got %d", len(matches))
	}
}

func TestSearchStoreFailure(t *testing.T) {
	r := NewUnstructuredRetriever(&corpusFake{err: errors.New("db down")}, 10)

	_, err := r.Search(context.Background(), "anything")
	if !domain.IsKind(err, domain.ErrRetrievalFailure) {
		t.Fatalf("expected ErrRetrievalFailure, got %v", err)
	}
}
