package extractor

import (
	"strings"
	"unicode/utf8"
)

// extractPlain validates UTF-8 and trims surrounding whitespace. Invalid
// sequences are replaced rather than rejected so a stray byte does not
// fail a whole document.
func extractPlain(content []byte) (string, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return strings.TrimSpace(text), nil
}
