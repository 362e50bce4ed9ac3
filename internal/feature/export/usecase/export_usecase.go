// Package usecase はjarエントリのCSV・PDFエクスポートを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	"jar_backend/internal/feature/export/domain"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/shared/apperr"
)

var (
	ErrAccessDenied  = apperr.Forbidden("Access denied")
	ErrInvalidPeriod = apperr.Validation("Validation failed", apperr.FieldError{Field: "period", Message: "Invalid period"})
)

// Format is an export file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Encoder turns rows into a file.
type Encoder interface {
	Encode(title string, rows []domain.Row) ([]byte, error)
}

// EntryRepository reads jar entries, oldest first.
type EntryRepository interface {
	ListByFamily(ctx context.Context, familyID string) ([]jarentity.JarEntry, error)
}

// MemberRepository reads family members.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*authentity.User, error)
	ListByFamily(ctx context.Context, familyID string) ([]authentity.User, error)
}

// AuditRecorder records exports.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

type exportUsecase struct {
	entries  EntryRepository
	members  MemberRepository
	encoders map[Format]Encoder
	audit    AuditRecorder
	title    string
	now      func() time.Time
}

// NewExportUsecase creates the export use case. jarName titles the PDF.
func NewExportUsecase(entries EntryRepository, members MemberRepository, csv, pdf Encoder, audit AuditRecorder, jarName string) *exportUsecase {
	return &exportUsecase{
		entries:  entries,
		members:  members,
		encoders: map[Format]Encoder{FormatCSV: csv, FormatPDF: pdf},
		audit:    audit,
		title:    jarName + " Export",
		now:      time.Now,
	}
}

// Export encodes the family's entries of period in format. familyID defaults
// to the caller's family; another family is rejected.
func (u *exportUsecase) Export(ctx context.Context, userID, familyID, period string, format Format) ([]byte, error) {
	p, ok := domain.ParsePeriod(period)
	if !ok {
		return nil, ErrInvalidPeriod
	}
	enc, ok := u.encoders[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	user, err := u.members.FindByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if user.FamilyID == nil {
		return nil, ErrAccessDenied
	}
	if familyID == "" {
		familyID = *user.FamilyID
	}
	if *user.FamilyID != familyID {
		return nil, ErrAccessDenied
	}

	entries, err := u.entries.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load jar entries: %w", err)
	}
	members, err := u.members.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load family members: %w", err)
	}

	rows := domain.BuildRows(entries, members, p.Since(u.now()))
	out, err := enc.Encode(u.title, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s export: %w", format, err)
	}

	u.audit.Record(ctx, userID, "JAR_EXPORTED", map[string]any{
		"familyId": familyID,
		"format":   string(format),
		"period":   string(p),
		"entries":  len(rows),
	})
	return out, nil
}
