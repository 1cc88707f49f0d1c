// Package report turns an aggregated shopping list into a downloadable
// document. It only lays lines out; grouping and ordering are done by the
// caller.
package report

import (
	"Foodgram-Backend/domain"
	"fmt"
)

const DefaultRowsPerPage = 21

type Renderer interface {
	Render(title string, lines []domain.AggregateLine) ([]byte, error)
	ContentType() string
	Extension() string
}

// FormatLine renders one numbered row, n starting at 1.
func FormatLine(n int, line domain.AggregateLine) string {
	return fmt.Sprintf("%d. %s    %d %s", n, line.Name, line.TotalAmount, line.MeasurementUnit)
}

// Paginate splits lines into pages of at most rowsPerPage rows. There is
// always at least one page so the title is rendered for an empty list.
func Paginate(lines []domain.AggregateLine, rowsPerPage int) [][]domain.AggregateLine {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	if len(lines) == 0 {
		return [][]domain.AggregateLine{{}}
	}
	pages := make([][]domain.AggregateLine, 0, (len(lines)+rowsPerPage-1)/rowsPerPage)
	for start := 0; start < len(lines); start += rowsPerPage {
		end := start + rowsPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	return pages
}

// ForFormat picks the renderer for a download format. An empty format means
// PDF.
func ForFormat(format string, rowsPerPage int) (Renderer, error) {
	switch format {
	case "", domain.FormatPDF:
		return NewPDFRenderer(rowsPerPage), nil
	case domain.FormatText:
		return NewTextRenderer(rowsPerPage), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
}
