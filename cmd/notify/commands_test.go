package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jar_backend/internal/feature/notification/domain/entity"
)

type mockNotifier struct {
	SendFunc      func(ctx context.Context, familyID string, kind entity.Kind) (*entity.Notification, error)
	ScheduledFunc func(ctx context.Context, kind entity.Kind) (int, error)
}

func (m *mockNotifier) SendForFamily(ctx context.Context, familyID string, kind entity.Kind) (*entity.Notification, error) {
	return m.SendFunc(ctx, familyID, kind)
}

func (m *mockNotifier) SendScheduled(ctx context.Context, kind entity.Kind) (int, error) {
	return m.ScheduledFunc(ctx, kind)
}

type cli struct {
	Send      SendCmd      `cmd:""`
	Scheduled ScheduledCmd `cmd:""`
}

func run(t *testing.T, n Notifier, args ...string) (string, error) {
	t.Helper()
	var c cli
	parser, err := kong.New(&c, kong.Name("notify"), kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = kctx.Run(&runContext{ctx: context.Background(), notifier: n, out: &out})
	return out.String(), err
}

// TestSendCmd はフラグの受け渡しと出力を検証します。
func TestSendCmd(t *testing.T) {
	var gotFamily string
	var gotKind entity.Kind
	n := &mockNotifier{SendFunc: func(_ context.Context, familyID string, kind entity.Kind) (*entity.Notification, error) {
		gotFamily, gotKind = familyID, kind
		return &entity.Notification{Type: kind, Recipients: 3, SentAt: time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)}, nil
	}}

	out, err := run(t, n, "send", "weekly", "--family-id", "fam-1")
	require.NoError(t, err)
	assert.Equal(t, "fam-1", gotFamily)
	assert.Equal(t, entity.KindWeekly, gotKind)
	assert.Equal(t, "sent weekly reminder to 3 recipient(s) at 2024-05-10T18:00:00Z\n", out)
}

// TestSendCmd_Invalid は不正な引数と送信失敗を検証します。
func TestSendCmd_Invalid(t *testing.T) {
	n := &mockNotifier{SendFunc: func(context.Context, string, entity.Kind) (*entity.Notification, error) {
		return nil, errors.New("ses down")
	}}

	_, err := run(t, n, "send", "monthly", "--family-id", "fam-1")
	assert.Error(t, err)

	_, err = run(t, n, "send", "daily")
	assert.Error(t, err)

	_, err = run(t, n, "send", "daily", "--family-id", "fam-1")
	assert.ErrorContains(t, err, "ses down")
}

// TestScheduledCmd は定期送信の件数出力を検証します。
func TestScheduledCmd(t *testing.T) {
	n := &mockNotifier{ScheduledFunc: func(_ context.Context, kind entity.Kind) (int, error) {
		assert.Equal(t, entity.KindDaily, kind)
		return 2, nil
	}}

	out, err := run(t, n, "scheduled", "daily")
	require.NoError(t, err)
	assert.Equal(t, "sent daily reminders to 2 family(ies)\n", out)
}
