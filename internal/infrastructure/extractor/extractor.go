// Package extractor turns stored document bytes into plain text, one
// rule per supported file type.
package extractor

import (
	"context"
	"fmt"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract dispatches on the file type recorded at ingestion time, not on
// content sniffing. fileType carries the leading dot.
func (e *Extractor) Extract(_ context.Context, content []byte, fileType string) (string, error) {
	switch fileType {
	case ".txt", ".md", ".json", ".csv":
		return extractPlain(content)
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text",
			fmt.Errorf("file type %q", fileType))
	}
}
