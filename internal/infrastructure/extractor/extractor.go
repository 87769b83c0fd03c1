package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/renewintel/ddroom/internal/core/domain"
)

// Extractor turns stored documents into plain text, dispatching on the
// file extension. Scanned PDFs without a text layer come back empty;
// the pipeline treats empty text as a processing failure.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, doc *domain.Document, data io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	switch ext {
	case ".pdf":
		return extractPDF(data)
	case ".xlsx", ".xlsm":
		return extractWorkbook(data)
	case ".txt", ".md", ".csv", ".log":
		return extractPlainText(doc.Filename, data)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text",
			fmt.Errorf("no extractor for %q", doc.Filename))
	}
}
