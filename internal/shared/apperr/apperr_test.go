package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestKindOf はラップされたエラーからKindが取り出せることを検証します。
func TestKindOf(t *testing.T) {
	t.Parallel()

	sentinel := Conflict("already exists")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", sentinel, KindConflict},
		{"wrapped", fmt.Errorf("create user: %w", sentinel), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
		{"validation", Validation("bad", FieldError{Field: "email", Message: "required"}), KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

// TestSentinelIdentity はerrors.Isが同一のセンチネルだけを一致させることを検証します。
func TestSentinelIdentity(t *testing.T) {
	t.Parallel()

	a := Forbidden("nope")
	b := Forbidden("nope")

	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", a), a))
	assert.False(t, errors.Is(a, b))
}

func TestAs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", Validation("invalid", FieldError{Field: "content", Message: "required"}))
	ae, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "invalid", ae.Message)
	assert.Len(t, ae.Details, 1)

	_, ok = As(errors.New("x"))
	assert.False(t, ok)
}
