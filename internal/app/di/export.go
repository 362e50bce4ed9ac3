package di

import (
	"log/slog"
	"os"

	exportadapters "jar_backend/internal/feature/export/adapters"
	exportusecase "jar_backend/internal/feature/export/usecase"
)

// NewPDFEncoder creates the PDF encoder. fontPath points to a TrueType font
// with UTF-8 coverage; when it is empty or unreadable the core fonts are used.
func NewPDFEncoder(fontPath string) exportusecase.Encoder {
	if fontPath == "" {
		slog.Info("PDF_FONT_PATH is not set. PDF exports are limited to cp1252 characters.")
		return exportadapters.NewPDFEncoder(nil)
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		slog.Warn("PDF font unavailable, falling back to core fonts", "path", fontPath, "error", err)
		return exportadapters.NewPDFEncoder(nil)
	}
	return exportadapters.NewPDFEncoder(font)
}
