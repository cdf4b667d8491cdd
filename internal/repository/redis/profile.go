package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/cache"
	"github.com/sirupsen/logrus"
)

const KeyProfile = "profile:%s"

type profileCache struct {
	client *redis.Client
}

var _ domain.ProfileCache = (*profileCache)(nil)

func NewProfileCache(client *redis.Client) *profileCache {
	return &profileCache{
		client,
	}
}

func profileKey(username string) string {
	return fmt.Sprintf(KeyProfile, username)
}

func (c *profileCache) MGet(ctx context.Context, usernames []string) (map[string]domain.CachedProfile, error) {
	res := make(map[string]domain.CachedProfile, len(usernames))
	if len(usernames) == 0 {
		return res, nil
	}

	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = profileKey(u)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		entry, err := cache.Decode[domain.Profile](str)
		if err != nil {
			logrus.Warnf("dropping corrupt profile cache entry %s: %v", keys[i], err)
			continue
		}
		res[usernames[i]] = domain.CachedProfile{
			Profile: entry.Data,
			Missing: entry.Missing,
			Expired: entry.Expired(),
		}
	}
	return res, nil
}

func (c *profileCache) MSet(ctx context.Context, entries []domain.CachedProfile, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for i := range entries {
		username := entries[i].Profile.Username
		entry := cache.NewEntry(entries[i].Profile, ttl)
		if entries[i].Missing {
			entry = cache.NewMissing[domain.Profile](ttl)
			entry.Data.Username = username
		}
		data, err := cache.Encode(entry)
		if err != nil {
			logrus.Warnf("failed to marshal profile for cache, username: %s, err: %v", username, err)
			continue
		}
		pipe.Set(ctx, profileKey(username), data, cache.HardTTL(ttl))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *profileCache) Delete(ctx context.Context, username string) error {
	return c.client.Del(ctx, profileKey(username)).Err()
}
