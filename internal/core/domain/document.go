package domain

import (
	"regexp"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Chunk is a bounded, possibly-overlapping segment of extracted text, the
// unit of search and (optional) embedding.
type Chunk struct {
	Index     int       `json:"chunk_index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// DocumentRecord is owned by the unstructured retrieval corpus. It is
// created on ingestion and immutable once ready.
type DocumentRecord struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	FileType    string         `json:"file_type"`
	StoragePath string         `json:"storage_path"`
	Content     string         `json:"-"`
	Chunks      []Chunk        `json:"-"`
	ChunkCount  int            `json:"chunk_count"`
	Metadata    DocumentStats  `json:"metadata"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ProcessedAt time.Time      `json:"processed_at,omitzero"`
}

// DocumentStats are corpus statistics extracted at processing time. The
// contact-pattern counts are never ranking inputs.
type DocumentStats struct {
	WordCount      int `json:"word_count"`
	CharacterCount int `json:"character_count"`
	EmailsFound    int `json:"emails_found"`
	PhonesFound    int `json:"phones_found"`
	DatesFound     int `json:"dates_found"`
}

// ChunkMatch is one matching chunk inside a search result.
type ChunkMatch struct {
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"chunk_text"`
	MatchScore int    `json:"match_score"`
}

// DocumentMatch is one ranked document returned by unstructured retrieval.
type DocumentMatch struct {
	DocumentID     string        `json:"document_id"`
	Filename       string        `json:"filename"`
	FileType       string        `json:"file_type"`
	RelevanceScore int           `json:"relevance_score"`
	MatchingChunks []ChunkMatch  `json:"matching_chunks"`
	Metadata       DocumentStats `json:"metadata"`
}

// CorpusStats summarizes the processed corpus.
type CorpusStats struct {
	TotalDocuments int            `json:"total_documents"`
	FileTypes      map[string]int `json:"file_types"`
	TotalChunks    int            `json:"total_chunks"`
	TotalWords     int            `json:"total_words"`
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	datePattern  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	wordPattern  = regexp.MustCompile(`\S+`)
)

// ExtractStats computes the per-document counters over extracted text.
func ExtractStats(content string) DocumentStats {
	return DocumentStats{
		WordCount:      len(wordPattern.FindAllString(content, -1)),
		CharacterCount: len(content),
		EmailsFound:    len(emailPattern.FindAllString(content, -1)),
		PhonesFound:    len(phonePattern.FindAllString(content, -1)),
		DatesFound:     len(datePattern.FindAllString(content, -1)),
	}
}
