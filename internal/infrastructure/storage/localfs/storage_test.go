package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "doc-1_notes.txt", strings.NewReader("hello storage")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reader, err := s.Open(ctx, "doc-1_notes.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(content) != "hello storage" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestOpenMissingKey(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.Open(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestSaveStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := s.Open(ctx, "escape.txt"); err != nil {
		t.Fatalf("expected traversal key flattened into base dir, got %v", err)
	}
}
