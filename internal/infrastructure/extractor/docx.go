package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// textNode matches <w:t>...</w:t> regardless of run attributes, so text
// survives documents with styled paragraphs.
var textNode = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: not a zip: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", f.Name, err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.Name, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("docx: %s not found", docxDocumentPath)
	}

	parts := textNode.FindAllSubmatch(docXML, -1)
	if len(parts) == 0 {
		return "", nil
	}
	var buf strings.Builder
	for i, part := range parts {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.Write(bytes.TrimSpace(part[1]))
	}
	return strings.TrimSpace(buf.String()), nil
}
