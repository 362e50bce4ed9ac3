package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	jaradapters "jar_backend/internal/feature/jar/adapters"
	"jar_backend/internal/feature/jar/usecase"
	"jar_backend/internal/platform/cache"
)

// EntryCacheTTL bounds how long a family's entry list stays cached.
const EntryCacheTTL = 5 * time.Minute

// NewEntryRepository creates an EntryRepository implementation.
// If Redis is available, the gorm repository is wrapped with a Redis cache.
// Otherwise, it reads the database directly.
func NewEntryRepository(rdb *redis.Client, db *gorm.DB) usecase.EntryRepository {
	repo := jaradapters.NewEntryGorm(db)
	if rdb != nil {
		return cache.NewCachingEntryRepository(rdb, EntryCacheTTL, repo, "jar")
	}
	return repo
}
