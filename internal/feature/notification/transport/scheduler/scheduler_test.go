package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jar_backend/internal/feature/notification/domain/entity"
)

type mockSender struct {
	mu    sync.Mutex
	kinds []entity.Kind
	err   error
}

func (m *mockSender) SendScheduled(_ context.Context, kind entity.Kind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds = append(m.kinds, kind)
	return 1, m.err
}

// TestNew は有効な式だけがジョブとして登録されることを検証します。
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		daily  string
		weekly string
		want   int
	}{
		{"both", "0 18 * * *", "0 9 * * 0", 2},
		{"seconds field", "0 0 18 * * *", "", 1},
		{"descriptor", "@daily", "@weekly", 2},
		{"empty", "", " ", 0},
		{"invalid skipped", "not a cron", "0 9 * * 0", 1},
		{"out of range", "99 18 * * *", "0 9 * * 9", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(&mockSender{}, tt.daily, tt.weekly)
			assert.Equal(t, tt.want, s.Jobs())
			assert.Len(t, s.cron.Entries(), tt.want)
		})
	}
}

// TestScheduler_Run はジョブ実行時に種別ごとの一斉送信が呼ばれることを検証します。
func TestScheduler_Run(t *testing.T) {
	t.Parallel()

	sender := &mockSender{err: errors.New("db down")}
	s := New(sender, "0 18 * * *", "0 9 * * 0")

	s.run(entity.KindDaily)
	s.run(entity.KindWeekly)
	assert.Equal(t, []entity.Kind{entity.KindDaily, entity.KindWeekly}, sender.kinds)
}

// TestScheduler_StartStop は起動と停止がブロックせずに完了することを検証します。
func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s := New(&mockSender{}, "@every 1h", "")
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())

	// ジョブがなくても停止できる
	New(&mockSender{}, "", "").Stop(ctx)
}
