package usecase

import (
	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// composed is the merged outcome of one or two retrieval strategies.
type composed struct {
	rows     []domain.ResultRow
	sources  []domain.SourceTag
	metadata map[string]any
}

// composeResults concatenates structured rows before document matches,
// tagging every row with its originating source. Ordering is fixed
// regardless of which strategy finished first; results are never
// interleaved or re-ranked jointly.
func composeResults(structured []domain.ResultRow, matches []domain.DocumentMatch) composed {
	out := composed{
		rows:     make([]domain.ResultRow, 0, len(structured)+len(matches)),
		metadata: map[string]any{},
	}

	for _, row := range structured {
		tagged := make(domain.ResultRow, len(row)+1)
		for k, v := range row {
			tagged[k] = v
		}
		tagged["source_type"] = string(domain.SourceDatabase)
		out.rows = append(out.rows, tagged)
	}
	for _, match := range matches {
		row := matchRow(match)
		// Row tag is singular; the response-level source tag stays "documents".
		row["source_type"] = "document"
		out.rows = append(out.rows, row)
	}

	if len(structured) > 0 {
		out.sources = append(out.sources, domain.SourceDatabase)
	}
	if len(matches) > 0 {
		out.sources = append(out.sources, domain.SourceDocuments)
	}
	out.metadata["database_results"] = len(structured)
	out.metadata["document_results"] = len(matches)
	return out
}
