// Package adapters はエクスポートのCSV・PDFエンコーダーを提供します。
package adapters

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"jar_backend/internal/feature/export/domain"
	"jar_backend/internal/feature/export/usecase"
)

var csvHeader = []string{"Date", "Type", "Author", "Content"}

type csvEncoder struct{}

var _ usecase.Encoder = csvEncoder{}

// NewCSVEncoder returns the CSV encoder.
func NewCSVEncoder() csvEncoder { return csvEncoder{} }

// Encode writes the header followed by one record per row. The title is not
// part of the CSV.
func (csvEncoder) Encode(_ string, rows []domain.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		content, err := r.ContentJSON()
		if err != nil {
			return nil, fmt.Errorf("encode entry content: %w", err)
		}
		if err := w.Write([]string{r.Date(), string(r.EntryType), r.Author, content}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
