package report

import (
	"Foodgram-Backend/domain"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

func lines(n int) []domain.AggregateLine {
	out := make([]domain.AggregateLine, n)
	for i := range out {
		out[i] = domain.AggregateLine{Name: fmt.Sprintf("Item %02d", i+1), MeasurementUnit: "g", TotalAmount: int64(i + 1)}
	}
	return out
}

func TestFormatLine(t *testing.T) {
	got := FormatLine(3, domain.AggregateLine{Name: "Salt", MeasurementUnit: "g", TotalAmount: 8})
	assert.Equal(t, "3. Salt    8 g", got)
}

func TestPaginate(t *testing.T) {
	assert.Len(t, Paginate(nil, 21), 1)
	assert.Empty(t, Paginate(nil, 21)[0])

	pages := Paginate(lines(43), 21)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 21)
	assert.Len(t, pages[1], 21)
	assert.Len(t, pages[2], 1)

	assert.Len(t, Paginate(lines(21), 21), 1)
	assert.Len(t, Paginate(lines(5), 0)[0], 5, "non-positive capacity falls back to the default")
}

func TestTextRenderer(t *testing.T) {
	r := NewTextRenderer(2)
	body, err := r.Render(domain.ShoppingListTitle, lines(3))
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.HasPrefix(text, domain.ShoppingListTitle+"\n\n"))
	pages := strings.Split(text, PageBreak)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "1. Item 01    1 g\n2. Item 02    2 g\n")
	assert.Equal(t, "3. Item 03    3 g\n", pages[1], "numbering continues across pages")
	assert.Equal(t, "text/plain; charset=utf-8", r.ContentType())
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer(21)
	body, err := r.Render(domain.ShoppingListTitle, lines(50))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Len(t, pageObject.FindAll(body, -1), 3)
	assert.Equal(t, ".pdf", r.Extension())

	empty, err := r.Render(domain.ShoppingListTitle, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}

// utf16be is how the PDF content stream carries text set in an embedded
// UTF-8 font.
func utf16be(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestPDFRendererKeepsCyrillic(t *testing.T) {
	r := &pdfRenderer{rowsPerPage: 21}
	body, err := r.Render("Список покупок", []domain.AggregateLine{
		{Name: "Сахар", MeasurementUnit: "г", TotalAmount: 200},
		{Name: "Соль", MeasurementUnit: "г", TotalAmount: 8},
	})
	require.NoError(t, err)

	assert.True(t, bytes.Contains(body, utf16be("Список покупок")))
	assert.True(t, bytes.Contains(body, utf16be("1. Сахар    200 г")))
	assert.True(t, bytes.Contains(body, utf16be("2. Соль    8 г")))
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("", 21)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	r, err = ForFormat(domain.FormatText, 21)
	require.NoError(t, err)
	assert.Equal(t, ".txt", r.Extension())

	_, err = ForFormat("docx", 21)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
