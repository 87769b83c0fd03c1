package extractor

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/renewintel/ddroom/internal/core/domain"
)

func extractPlainText(filename string, data io.Reader) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text",
			fmt.Errorf("binary content in text file %q", filename))
	}
	return normalizeText(string(raw)), nil
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
