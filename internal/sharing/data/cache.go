package data

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/redis"
	"github.com/gubbigubbi/easy-social-sharing/internal/sharing/biz"
)

// cacheKeyPrefix namespaces all share count entries in Redis
const cacheKeyPrefix = "ess:shares"

// CountCacheRepo implements biz.CacheRepo on Redis. Entries carry no TTL;
// staleness is decided by the use case from the stored timestamp, so a
// stale count stays servable until the next successful refresh.
type CountCacheRepo struct {
	client *redis.Client
}

// NewCountCacheRepo creates a new count cache repository
func NewCountCacheRepo(client *redis.Client) biz.CacheRepo {
	return &CountCacheRepo{client: client}
}

func cacheKey(postID int64, networkName string) string {
	return fmt.Sprintf("%s:%d:%s", cacheKeyPrefix, postID, networkName)
}

// Get reads the cached count entry for a (post, network) pair
func (r *CountCacheRepo) Get(ctx context.Context, postID int64, networkName string) (*biz.CachedCount, bool, error) {
	raw, err := r.client.Get(ctx, cacheKey(postID, networkName))
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entry biz.CachedCount
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// A corrupt entry is treated as absent so the next refresh
		// overwrites it
		return nil, false, nil
	}

	return &entry, true, nil
}

// Set overwrites the cached count entry for a (post, network) pair
func (r *CountCacheRepo) Set(ctx context.Context, postID int64, networkName string, entry *biz.CachedCount) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, cacheKey(postID, networkName), raw, 0)
}
