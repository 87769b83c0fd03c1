package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractWorkbook flattens every sheet into tab-separated rows, one
// sheet section per paragraph, so term extraction and chunking see the
// tabular content as regular text.
func extractWorkbook(data io.Reader) (string, error) {
	wb, err := excelize.OpenReader(data)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var b strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		var lines []string
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sheet)
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	return normalizeText(b.String()), nil
}
