package report

import (
	"Foodgram-Backend/domain"
	"strings"
)

// PageBreak separates pages of the plain-text document.
const PageBreak = "\f\n"

type textRenderer struct {
	rowsPerPage int
}

func NewTextRenderer(rowsPerPage int) Renderer {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	return &textRenderer{rowsPerPage: rowsPerPage}
}

func (r *textRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *textRenderer) Extension() string {
	return ".txt"
}

func (r *textRenderer) Render(title string, lines []domain.AggregateLine) ([]byte, error) {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	n := 0
	for i, page := range Paginate(lines, r.rowsPerPage) {
		if i > 0 {
			b.WriteString(PageBreak)
		}
		for _, line := range page {
			n++
			b.WriteString(FormatLine(n, line))
			b.WriteByte('\n')
		}
	}
	return []byte(b.String()), nil
}
