package adapters

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"jar_backend/internal/feature/export/domain"
	"jar_backend/internal/feature/export/usecase"
)

const utf8Family = "jarbody"

type pdfEncoder struct {
	compress bool
	// font はUTF-8フォント（TTF）。nilならコアフォントで出力する
	font []byte
}

var _ usecase.Encoder = (*pdfEncoder)(nil)

// NewPDFEncoder returns an A4 PDF encoder. font is an optional TrueType font
// used for all text; without it only cp1252 characters render and the rest
// are replaced.
func NewPDFEncoder(font []byte) *pdfEncoder {
	return &pdfEncoder{compress: true, font: font}
}

// Encode renders title followed by one block per row.
func (e *pdfEncoder) Encode(title string, rows []domain.Row) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator(title, true)

	family := "Helvetica"
	tr := func(s string) string { return s }
	if len(e.font) > 0 {
		pdf.AddUTF8FontFromBytes(utf8Family, "", e.font)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", e.font)
		family = utf8Family
	} else {
		// コアフォントはcp1252のみ対応
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()
	pdf.SetFont(family, "BU", 20)
	pdf.MultiCell(0, 10, tr(title), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	if len(rows) == 0 {
		pdf.MultiCell(0, 6, "No entries in this period.", "", "L", false)
	}
	for _, r := range rows {
		lines := []string{
			"Date: " + r.Date(),
			"Type: " + string(r.EntryType),
			"Author: " + r.Author,
			"Content: " + r.Content,
		}
		if md := r.MetadataJSON(); md != "" {
			lines = append(lines, "Metadata: "+md)
		}
		for _, l := range lines {
			pdf.MultiCell(0, 6, tr(l), "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
