// Package chunking splits extracted text into search units. The strategy
// follows document structure: paragraph-first for page-oriented formats,
// header-preserving rows for tabular formats, sentences otherwise.
package chunking

import (
	"regexp"
	"strings"
)

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text, fileType string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	switch fileType {
	case ".pdf", ".docx":
		chunks = s.splitByParagraphs(text)
	case ".csv", ".xlsx":
		chunks = s.splitTabular(text)
	default:
		chunks = s.splitBySentences(text)
	}

	out := chunks[:0]
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

func (s *Splitter) splitByParagraphs(text string) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	for _, paragraph := range paragraphs {
		if current.Len()+len(paragraph) <= s.ChunkSize {
			current.WriteString(paragraph)
			current.WriteString("\n\n")
			continue
		}

		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}

		// Oversized paragraphs fall back to sentence splitting.
		if len(paragraph) > s.ChunkSize {
			chunks = append(chunks, s.splitBySentences(paragraph)...)
		} else {
			current.WriteString(paragraph)
			current.WriteString("\n\n")
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// sentenceEnd marks sentence-terminating punctuation followed by
// whitespace. RE2 has no lookbehind, so the boundary is recovered by
// cutting after the punctuation of each match.
var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

func splitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		loc := sentenceEnd.FindStringIndex(rest)
		if loc == nil {
			break
		}
		boundary := loc[0]
		for boundary < loc[1] && !isSpace(rest[boundary]) {
			boundary++
		}
		sentences = append(sentences, rest[:boundary])
		rest = rest[loc[1]:]
	}
	if strings.TrimSpace(rest) != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (s *Splitter) splitBySentences(text string) []string {
	var chunks []string
	var current strings.Builder
	for _, sentence := range splitSentences(text) {
		if current.Len()+len(sentence) <= s.ChunkSize {
			current.WriteString(sentence)
			current.WriteByte(' ')
			continue
		}
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteByte(' ')
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// splitTabular groups data rows under a repeated header line, so every
// chunk is independently interpretable.
func (s *Splitter) splitTabular(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}

	header := lines[0]
	dataLines := lines[1:]

	var chunks []string
	current := []string{header}
	size := len(header)

	for _, line := range dataLines {
		if size+len(line) <= s.ChunkSize {
			current = append(current, line)
			size += len(line)
			continue
		}
		if len(current) > 1 {
			chunks = append(chunks, strings.Join(current, "\n"))
		}
		current = []string{header, line}
		size = len(header) + len(line)
	}
	if len(current) > 1 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}
