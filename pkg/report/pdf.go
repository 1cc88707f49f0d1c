package report

import (
	"Foodgram-Backend/domain"
	"bytes"
	_ "embed"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// A4 in points.
const (
	pageHeight    = 842.0
	marginLeft    = 50.0
	titleLeft     = 200.0
	titleTop      = 42.0
	firstRowTop   = 92.0
	marginBottom  = 40.0
	maxRowSpacing = 20.0
	titleSize     = 24.0
	rowSize       = 13.0
)

// DejaVu covers Cyrillic and the rest of the ingredient dataset; the core
// PDF fonts only cover cp1252.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

type pdfRenderer struct {
	rowsPerPage int
	compress    bool
}

func NewPDFRenderer(rowsPerPage int) Renderer {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	return &pdfRenderer{rowsPerPage: rowsPerPage, compress: true}
}

func (r *pdfRenderer) ContentType() string {
	return "application/pdf"
}

func (r *pdfRenderer) Extension() string {
	return ".pdf"
}

func (r *pdfRenderer) Render(title string, lines []domain.AggregateLine) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(err, "load pdf fonts")
	}

	spacing := (pageHeight - firstRowTop - marginBottom) / float64(r.rowsPerPage)
	if spacing > maxRowSpacing {
		spacing = maxRowSpacing
	}

	n := 0
	for i, page := range Paginate(lines, r.rowsPerPage) {
		pdf.AddPage()
		if i == 0 {
			pdf.SetFont(fontFamily, "B", titleSize)
			pdf.Text(titleLeft, titleTop, title)
		}
		pdf.SetFont(fontFamily, "", rowSize)
		y := firstRowTop
		for _, line := range page {
			n++
			pdf.Text(marginLeft, y, FormatLine(n, line))
			y += spacing
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render pdf")
	}
	return buf.Bytes(), nil
}
