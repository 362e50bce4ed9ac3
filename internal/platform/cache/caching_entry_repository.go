// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jar_backend/internal/feature/jar/domain/entity"
	"jar_backend/internal/feature/jar/usecase"
)

// CachingEntryRepository decorates an EntryRepository with Redis caching of
// family entry lists. Every write invalidates the family's cached keys.
type CachingEntryRepository struct {
	inner     usecase.EntryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EntryRepository = (*CachingEntryRepository)(nil)

// NewCachingEntryRepository decorates an EntryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "jar".
func NewCachingEntryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EntryRepository, namespace string) *CachingEntryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "jar"
	}
	return &CachingEntryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the entry and invalidates the family's cache.
func (c *CachingEntryRepository) Create(ctx context.Context, e *entity.JarEntry) error {
	if err := c.inner.Create(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.FamilyID)
	return nil
}

// FindByID is not cached.
func (c *CachingEntryRepository) FindByID(ctx context.Context, id string) (*entity.JarEntry, error) {
	return c.inner.FindByID(ctx, id)
}

// HasResponse is not cached; it guards the respond flow and must see fresh data.
func (c *CachingEntryRepository) HasResponse(ctx context.Context, entryID string) (bool, error) {
	return c.inner.HasResponse(ctx, entryID)
}

// Update stores the change and invalidates the family's cache.
func (c *CachingEntryRepository) Update(ctx context.Context, e *entity.JarEntry) error {
	if err := c.inner.Update(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.FamilyID)
	return nil
}

// Delete removes the entry and invalidates the family's cache.
func (c *CachingEntryRepository) Delete(ctx context.Context, familyID, id string) error {
	if err := c.inner.Delete(ctx, familyID, id); err != nil {
		return err
	}
	c.invalidate(ctx, familyID)
	return nil
}

// ListByFamily retrieves entries, checking cache first then falling back to the database.
func (c *CachingEntryRepository) ListByFamily(ctx context.Context, familyID string) ([]entity.JarEntry, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListByFamily(ctx, familyID)
	}

	key := c.listKey(familyID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.JarEntry
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingEntryRepository) invalidate(ctx context.Context, familyID string) {
	if c.rdb == nil {
		return
	}
	// Best effort: a stale list expires with the TTL
	if err := c.deleteByPattern(ctx, c.familyPrefix(familyID)+"*"); err != nil {
		slog.Warn("jar cache invalidation failed", "familyId", familyID, "error", err)
	}
}

// listKey generates the cache key for a family's entry list.
func (c *CachingEntryRepository) listKey(familyID string) string {
	return c.familyPrefix(familyID) + "entries"
}

// familyPrefix generates a prefix for invalidating a family's cache entries.
func (c *CachingEntryRepository) familyPrefix(familyID string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(familyID))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingEntryRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
