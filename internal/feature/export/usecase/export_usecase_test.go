package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "jar_backend/internal/feature/auth/domain/entity"
	authusecase "jar_backend/internal/feature/auth/usecase"
	"jar_backend/internal/feature/export/domain"
	jarentity "jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/shared/apperr"
)

type mockEntries struct {
	ListFunc func(ctx context.Context, familyID string) ([]jarentity.JarEntry, error)
}

func (m *mockEntries) ListByFamily(ctx context.Context, familyID string) ([]jarentity.JarEntry, error) {
	return m.ListFunc(ctx, familyID)
}

type mockMembers struct {
	users []authentity.User
	err   error
}

func (m *mockMembers) FindByID(_ context.Context, id string) (*authentity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, authusecase.ErrUserNotFound
}

func (m *mockMembers) ListByFamily(_ context.Context, familyID string) ([]authentity.User, error) {
	var out []authentity.User
	for _, u := range m.users {
		if u.FamilyID != nil && *u.FamilyID == familyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type captureEncoder struct {
	title string
	rows  []domain.Row
	err   error
}

func (c *captureEncoder) Encode(title string, rows []domain.Row) ([]byte, error) {
	c.title, c.rows = title, rows
	return []byte("file"), c.err
}

type mockAudit struct{ actions []string }

func (m *mockAudit) Record(_ context.Context, _, action string, _ map[string]any) {
	m.actions = append(m.actions, action)
}

func newUsecase() (*exportUsecase, *captureEncoder, *captureEncoder, *mockAudit) {
	uc, csvEnc, pdfEnc, audit, _ := newUsecaseWithMembers()
	return uc, csvEnc, pdfEnc, audit
}

func newUsecaseWithMembers() (*exportUsecase, *captureEncoder, *captureEncoder, *mockAudit, *mockMembers) {
	fam1, fam2 := "fam-1", "fam-2"
	members := &mockMembers{users: []authentity.User{
		{ID: "u-mom", FirstName: "Avery", LastName: "Parent", FamilyID: &fam1},
		{ID: "u-other", FirstName: "Sam", FamilyID: &fam2},
		{ID: "u-loner", FirstName: "Lee"},
	}}
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	entries := &mockEntries{ListFunc: func(_ context.Context, familyID string) ([]jarentity.JarEntry, error) {
		return []jarentity.JarEntry{
			{ID: "e-old", FamilyID: familyID, UserID: "u-mom", EntryType: jarentity.EntryGoodThing, CreatedAt: now.Add(-40 * 24 * time.Hour)},
			{ID: "e-month", FamilyID: familyID, UserID: "u-mom", EntryType: jarentity.EntryGratitude, CreatedAt: now.Add(-20 * 24 * time.Hour)},
			{ID: "e-week", FamilyID: familyID, UserID: "u-mom", EntryType: jarentity.EntryBetterChoice, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		}, nil
	}}
	csvEnc, pdfEnc, audit := &captureEncoder{}, &captureEncoder{}, &mockAudit{}
	uc := NewExportUsecase(entries, members, csvEnc, pdfEnc, audit, "Mia’s Jar")
	uc.now = func() time.Time { return now }
	return uc, csvEnc, pdfEnc, audit, members
}

// TestExport_Periods は期間ごとに出力行が絞り込まれることを検証します。
func TestExport_Periods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		period string
		want   int
	}{
		{"weekly", 1},
		{"monthly", 2},
		{"all", 3},
		{"", 3},
	}
	for _, tt := range tests {
		t.Run("period="+tt.period, func(t *testing.T) {
			t.Parallel()
			uc, csvEnc, _, audit := newUsecase()

			out, err := uc.Export(context.Background(), "u-mom", "fam-1", tt.period, FormatCSV)
			require.NoError(t, err)
			assert.Equal(t, []byte("file"), out)
			assert.Len(t, csvEnc.rows, tt.want)
			assert.Equal(t, []string{"JAR_EXPORTED"}, audit.actions)
		})
	}
}

// TestExport_PDF はPDFのタイトルと既定の家族IDを検証します。
func TestExport_PDF(t *testing.T) {
	t.Parallel()

	uc, csvEnc, pdfEnc, _ := newUsecase()
	_, err := uc.Export(context.Background(), "u-mom", "", "all", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "Mia’s Jar Export", pdfEnc.title)
	require.Len(t, pdfEnc.rows, 3)
	assert.Equal(t, "Avery Parent", pdfEnc.rows[0].Author)
	assert.Nil(t, csvEnc.rows)
}

// TestExport_Errors はアクセス拒否・不正な期間・エンコード失敗を検証します。
func TestExport_Errors(t *testing.T) {
	t.Parallel()

	uc, csvEnc, _, audit := newUsecase()
	ctx := context.Background()

	_, err := uc.Export(ctx, "u-other", "fam-1", "all", FormatCSV)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = uc.Export(ctx, "u-loner", "", "all", FormatCSV)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = uc.Export(ctx, "u-mom", "fam-1", "yearly", FormatCSV)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = uc.Export(ctx, "u-mom", "fam-1", "all", "xlsx")
	assert.Error(t, err)

	csvEnc.err = errors.New("disk full")
	_, err = uc.Export(ctx, "u-mom", "fam-1", "all", FormatCSV)
	assert.Error(t, err)
	assert.Empty(t, audit.actions)
}

// TestExport_MemberLookupFailure はユーザー取得の障害が403ではなく内部エラーになることを検証します。
func TestExport_MemberLookupFailure(t *testing.T) {
	t.Parallel()

	uc, _, _, audit, members := newUsecaseWithMembers()
	ctx := context.Background()

	_, err := uc.Export(ctx, "ghost", "", "all", FormatCSV)
	assert.ErrorIs(t, err, ErrAccessDenied)

	members.err = errors.New("connection refused")
	_, err = uc.Export(ctx, "u-mom", "fam-1", "all", FormatCSV)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Empty(t, audit.actions)
}
