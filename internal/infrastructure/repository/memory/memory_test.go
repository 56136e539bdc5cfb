package memory

import (
	"context"
	"testing"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

func TestDocumentStoreLifecycle(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.DocumentRecord{ID: "doc-1", Filename: "notes.txt", FileType: ".txt", Status: domain.StatusUploaded}
	if err := store.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, doc); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	if err := store.UpdateStatus(ctx, "doc-1", domain.StatusProcessing, ""); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	got, err := store.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != domain.StatusProcessing {
		t.Fatalf("expected processing, got %s", got.Status)
	}

	got.Content = "processed text"
	got.ChunkCount = 2
	got.Metadata = domain.DocumentStats{WordCount: 2}
	got.Status = domain.StatusReady
	if err := store.SaveProcessed(ctx, got); err != nil {
		t.Fatalf("SaveProcessed() error = %v", err)
	}

	ready, err := store.ListReady(ctx)
	if err != nil {
		t.Fatalf("ListReady() error = %v", err)
	}
	if len(ready) != 1 || ready[0].Content != "processed text" {
		t.Fatalf("unexpected ready corpus: %+v", ready)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalDocuments != 1 || stats.TotalChunks != 2 || stats.TotalWords != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDocumentStoreUnknownID(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateStatus(ctx, "missing", domain.StatusFailed, "x"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStoreReturnsCopies(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_ = store.Create(ctx, &domain.DocumentRecord{ID: "doc-1", Status: domain.StatusUploaded})
	got, _ := store.GetByID(ctx, "doc-1")
	got.Status = domain.StatusFailed

	again, _ := store.GetByID(ctx, "doc-1")
	if again.Status != domain.StatusUploaded {
		t.Fatalf("store must not expose internal records")
	}
}

func TestHistoryLogNewestFirst(t *testing.T) {
	log := NewHistoryLog(0)
	ctx := context.Background()

	for _, id := range []string{"q-1", "q-2", "q-3"} {
		if err := log.Append(ctx, domain.HistoryEntry{ID: id}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := log.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "q-3" || entries[1].ID != "q-2" {
		t.Fatalf("expected newest first, got %+v", entries)
	}
}

func TestHistoryLogBoundedWindow(t *testing.T) {
	log := NewHistoryLog(2)
	ctx := context.Background()

	for _, id := range []string{"q-1", "q-2", "q-3"} {
		_ = log.Append(ctx, domain.HistoryEntry{ID: id})
	}

	entries, _ := log.ListRecent(ctx, 10)
	if len(entries) != 2 || entries[0].ID != "q-3" {
		t.Fatalf("expected bounded window of 2, got %+v", entries)
	}
}
