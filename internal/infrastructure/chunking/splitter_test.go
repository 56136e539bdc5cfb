package chunking

import (
	"strings"
	"testing"
)

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(1000, 200)

	if got := s.Split("   \n ", ".txt"); got != nil {
		t.Fatalf("expected nil for blank text, got %v", got)
	}
}

func TestSplitBySentences(t *testing.T) {
	s := NewSplitter(50, 10)
	text := "First sentence here. Second one follows! Third asks? Fourth ends."

	chunks := s.Split(text, ".txt")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple sentence chunks, got %v", chunks)
	}
	for _, chunk := range chunks {
		if len(chunk) > 70 {
			t.Fatalf("chunk exceeds size bound: %q", chunk)
		}
	}
	joined := strings.Join(chunks, " ")
	for _, word := range []string{"First", "Second", "Third", "Fourth"} {
		if !strings.Contains(joined, word) {
			t.Fatalf("lost sentence containing %q", word)
		}
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 200)

	chunks := s.Split("One short sentence.", ".md")
	if len(chunks) != 1 || chunks[0] != "One short sentence." {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestSplitByParagraphs(t *testing.T) {
	s := NewSplitter(60, 10)
	text := "First paragraph body.\n\nSecond paragraph body.\n\nThird paragraph body."

	chunks := s.Split(text, ".pdf")
	if len(chunks) < 2 {
		t.Fatalf("expected paragraph grouping into multiple chunks, got %v", chunks)
	}
	if !strings.Contains(chunks[0], "First paragraph") {
		t.Fatalf("first chunk must start with first paragraph: %q", chunks[0])
	}
}

func TestSplitOversizedParagraphFallsBackToSentences(t *testing.T) {
	s := NewSplitter(40, 10)
	long := "A sentence that runs on. Another sentence follows. And one more to grow. Final bit here."

	chunks := s.Split(long, ".docx")
	if len(chunks) < 2 {
		t.Fatalf("oversized paragraph must be re-split, got %v", chunks)
	}
}

func TestSplitTabularRepeatsHeader(t *testing.T) {
	s := NewSplitter(60, 0)
	var lines []string
	lines = append(lines, "name,salary")
	for i := 0; i < 6; i++ {
		lines = append(lines, "Some Employee Name,95000")
	}

	chunks := s.Split(strings.Join(lines, "\n"), ".csv")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple tabular chunks, got %v", chunks)
	}
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk, "name,salary\n") {
			t.Fatalf("chunk %d missing header: %q", i, chunk)
		}
	}
}

func TestSplitTabularHeaderOnlyYieldsNothing(t *testing.T) {
	s := NewSplitter(1000, 0)

	if got := s.Split("name,salary", ".csv"); len(got) != 0 {
		t.Fatalf("header-only input must yield no chunks, got %v", got)
	}
}

func TestNewSplitterNormalizesArguments(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.ChunkSize != 1000 || s.Overlap != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	s = NewSplitter(100, 500)
	if s.Overlap >= s.ChunkSize {
		t.Fatalf("overlap must be clamped below chunk size: %+v", s)
	}
}
