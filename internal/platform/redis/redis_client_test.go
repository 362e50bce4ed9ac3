package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewRedisClient_NotConfigured はホスト未設定時にErrNotConfiguredが返ることを検証します。
func TestNewRedisClient_NotConfigured(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, rdb)
}

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cache:6380", Config{Host: "cache", Port: "6380"}.Addr())
	assert.Equal(t, "cache:6379", Config{Host: "cache"}.Addr())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6390")
	t.Setenv("REDIS_PASSWORD", "pw")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, Config{Host: "redis.internal", Port: "6390", Password: "pw"}, cfg)
}
