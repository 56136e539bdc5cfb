package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
)

const topChunksPerMatch = 3

// UnstructuredRetriever performs keyword search over the processed
// document corpus. It never fails on an empty corpus.
type UnstructuredRetriever struct {
	store ports.DocumentStore
	limit int
}

func NewUnstructuredRetriever(store ports.DocumentStore, limit int) *UnstructuredRetriever {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return &UnstructuredRetriever{store: store, limit: limit}
}

// Search scores every ready document: 10 for a filename substring hit,
// 5 for a full-text hit, plus per-chunk occurrence counts. Zero-score
// documents are excluded; ties preserve corpus order.
func (r *UnstructuredRetriever) Search(ctx context.Context, text string) ([]domain.DocumentMatch, error) {
	docs, err := r.store.ListReady(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalFailure, "list corpus", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	needle := strings.ToLower(text)
	matches := make([]domain.DocumentMatch, 0, len(docs))

	for _, doc := range docs {
		score := 0
		if strings.Contains(strings.ToLower(doc.Filename), needle) {
			score += 10
		}
		if strings.Contains(strings.ToLower(doc.Content), needle) {
			score += 5
		}

		var chunkMatches []domain.ChunkMatch
		for _, chunk := range doc.Chunks {
			occurrences := strings.Count(strings.ToLower(chunk.Text), needle)
			if occurrences == 0 {
				continue
			}
			chunkMatches = append(chunkMatches, domain.ChunkMatch{
				ChunkIndex: chunk.Index,
				Text:       chunk.Text,
				MatchScore: occurrences,
			})
			score += occurrences
		}
		if score == 0 {
			continue
		}

		matches = append(matches, domain.DocumentMatch{
			DocumentID:     doc.ID,
			Filename:       doc.Filename,
			FileType:       doc.FileType,
			RelevanceScore: score,
			MatchingChunks: topChunks(chunkMatches),
			Metadata:       doc.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RelevanceScore > matches[j].RelevanceScore
	})
	if len(matches) > r.limit {
		matches = matches[:r.limit]
	}
	return matches, nil
}

// topChunks keeps the highest-occurrence matching chunks, stable on ties.
func topChunks(chunks []domain.ChunkMatch) []domain.ChunkMatch {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].MatchScore > chunks[j].MatchScore
	})
	if len(chunks) > topChunksPerMatch {
		chunks = chunks[:topChunksPerMatch]
	}
	return chunks
}

// matchRow converts a document match to the boundary row shape.
func matchRow(m domain.DocumentMatch) domain.ResultRow {
	return domain.ResultRow{
		"type":            "document",
		"document_id":     m.DocumentID,
		"filename":        m.Filename,
		"file_type":       m.FileType,
		"relevance_score": m.RelevanceScore,
		"matching_chunks": m.MatchingChunks,
		"metadata":        m.Metadata,
	}
}
