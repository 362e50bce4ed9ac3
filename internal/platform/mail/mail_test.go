package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

type mockSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

// TestMaskEmail はログ用にメールアドレスが伏字になることを検証します。
func TestMaskEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"mom@example.com", "mo***@example.com"},
		{"a@example.com", "a***@example.com"},
		{"no-at-sign", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MaskEmail(tt.in))
		})
	}
}

// TestWithTestRecipient はテスト受信者がBCCに追加されることを検証します。
func TestWithTestRecipient(t *testing.T) {
	t.Parallel()

	t.Run("adds bcc", func(t *testing.T) {
		inner := &recordingSender{}
		s := WithTestRecipient(inner, "qa@example.com")

		require.NoError(t, s.Send(context.Background(), Message{To: "mom@example.com", Bcc: []string{"dad@example.com"}}))
		require.Len(t, inner.sent, 1)
		assert.Equal(t, []string{"dad@example.com", "qa@example.com"}, inner.sent[0].Bcc)
	})

	t.Run("does not duplicate an existing recipient", func(t *testing.T) {
		inner := &recordingSender{}
		s := WithTestRecipient(inner, "QA@example.com")

		require.NoError(t, s.Send(context.Background(), Message{To: "qa@example.com"}))
		assert.Empty(t, inner.sent[0].Bcc)
	})

	t.Run("empty recipient returns inner", func(t *testing.T) {
		inner := &recordingSender{}
		assert.Same(t, inner, WithTestRecipient(inner, " ").(*recordingSender))
	})
}

// TestSESSender_Send はSES APIに渡す入力が正しく組み立てられることを検証します。
func TestSESSender_Send(t *testing.T) {
	t.Parallel()

	api := &mockSES{}
	s := newSESSender(api, "jar@example.com", "Growth Jar")

	err := s.Send(context.Background(), Message{
		To:      "mom@example.com",
		Bcc:     []string{"dad@example.com"},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, `"Growth Jar" <jar@example.com>`, aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"mom@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, []string{"dad@example.com"}, api.input.Destination.BccAddresses)
	assert.Equal(t, "Hello", aws.ToString(api.input.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(api.input.Content.Simple.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(api.input.Content.Simple.Body.Text.Data))
}

func TestSESSender_Errors(t *testing.T) {
	t.Parallel()

	s := newSESSender(&mockSES{err: errors.New("throttled")}, "jar@example.com", "")
	assert.Error(t, s.Send(context.Background(), Message{}))
	assert.ErrorContains(t, s.Send(context.Background(), Message{To: "a@example.com"}), "throttled")
}

func TestLogSender(t *testing.T) {
	t.Parallel()
	assert.NoError(t, LogSender{}.Send(context.Background(), Message{To: "mom@example.com", Subject: "x"}))
}
