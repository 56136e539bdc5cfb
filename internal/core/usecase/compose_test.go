package usecase

import (
	"testing"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

func TestComposeStructuredBeforeDocuments(t *testing.T) {
	structured := []domain.ResultRow{
		{"full_name": "Alice Cooper"},
		{"full_name": "Bob Wilson"},
	}
	matches := []domain.DocumentMatch{
		{DocumentID: "doc-1", Filename: "resume.pdf", RelevanceScore: 12},
	}

	comp := composeResults(structured, matches)
	if len(comp.rows) != 3 {
		t.Fatalf("expected 3 composed rows, got %d", len(comp.rows))
	}
	for i, row := range comp.rows[:2] {
		if row["source_type"] != "database" {
			t.Fatalf("row %d expected database tag, got %v", i, row["source_type"])
		}
	}
	if comp.rows[2]["source_type"] != "document" {
		t.Fatalf("last row expected document tag, got %v", comp.rows[2]["source_type"])
	}
}

func TestComposeSourceTags(t *testing.T) {
	comp := composeResults(
		[]domain.ResultRow{{"n": 1}},
		[]domain.DocumentMatch{{DocumentID: "doc-1"}},
	)
	if len(comp.sources) != 2 ||
		comp.sources[0] != domain.SourceDatabase ||
		comp.sources[1] != domain.SourceDocuments {
		t.Fatalf("unexpected sources: %v", comp.sources)
	}
	if comp.metadata["database_results"] != 1 || comp.metadata["document_results"] != 1 {
		t.Fatalf("unexpected per-source counts: %v", comp.metadata)
	}
}

func TestComposeDoesNotMutateInputRows(t *testing.T) {
	structured := []domain.ResultRow{{"full_name": "Alice Cooper"}}

	_ = composeResults(structured, nil)
	if _, ok := structured[0]["source_type"]; ok {
		t.Fatalf("composer must not mutate input rows")
	}
}

func TestComposeEmptyInputs(t *testing.T) {
	comp := composeResults(nil, nil)
	if len(comp.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(comp.rows))
	}
	if len(comp.sources) != 0 {
		t.Fatalf("expected no sources, got %v", comp.sources)
	}
}
