package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const DefaultProfileTTL = 10 * time.Minute

// profileRepository 协调层，协调缓存和数据库
type profileRepository struct {
	db           domain.ProfileRepository
	cache        domain.ProfileCache
	ttl          time.Duration
	rebuildGroup singleflight.Group
}

var _ domain.ProfileRepository = (*profileRepository)(nil)

// NewProfileRepository wraps db with a cache-aside profile cache
func NewProfileRepository(db domain.ProfileRepository, cache domain.ProfileCache, ttl time.Duration) *profileRepository {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &profileRepository{
		db:    db,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	cached, err := r.cache.MGet(ctx, []string{username})
	if err != nil {
		logrus.Warnf("profile cache unavailable: %v", err)
	}
	if entry, ok := cached[username]; ok {
		if entry.Expired {
			go r.rebuild(context.Background(), []string{username})
		}
		if entry.Missing {
			return domain.Profile{}, domain.ErrNotFound
		}
		return entry.Profile, nil
	}

	// 缓存未命中，使用singleflight避免缓存击穿
	result, err, _ := r.rebuildGroup.Do("profile:"+username, func() (any, error) {
		profile, err := r.db.GetByUsername(ctx, username)
		entry := domain.CachedProfile{Profile: profile}
		if errors.Is(err, domain.ErrNotFound) {
			entry = domain.CachedProfile{Profile: domain.Profile{Username: username}, Missing: true}
		} else if err != nil {
			return nil, err
		}
		if cacheErr := r.cache.MSet(context.Background(), []domain.CachedProfile{entry}, r.ttl); cacheErr != nil {
			logrus.Warnf("failed to cache profile %s: %v", username, cacheErr)
		}
		return entry, nil
	})
	if err != nil {
		return domain.Profile{}, err
	}

	entry := result.(domain.CachedProfile)
	if entry.Missing {
		return domain.Profile{}, domain.ErrNotFound
	}
	return entry.Profile, nil
}

// GetByUsernames serves hits from the cache and loads every miss with one db query
func (r *profileRepository) GetByUsernames(ctx context.Context, usernames []string) ([]domain.Profile, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	cached, err := r.cache.MGet(ctx, usernames)
	if err != nil {
		logrus.Warnf("profile cache unavailable: %v", err)
		cached = nil
	}

	found := make(map[string]domain.Profile, len(usernames))
	var misses, expired []string
	for _, u := range usernames {
		entry, ok := cached[u]
		if !ok {
			misses = append(misses, u)
			continue
		}
		if entry.Expired {
			expired = append(expired, u)
		}
		if !entry.Missing {
			found[u] = entry.Profile
		}
	}

	if len(expired) > 0 {
		go r.rebuild(context.Background(), expired)
	}

	if len(misses) > 0 {
		loaded, err := r.load(ctx, misses)
		if err != nil {
			return nil, err
		}
		// 异步更新缓存
		go r.store(context.Background(), misses, loaded)
		for _, p := range loaded {
			found[p.Username] = p
		}
	}

	res := make([]domain.Profile, 0, len(found))
	for _, u := range usernames {
		if p, ok := found[u]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	if err := r.db.Upsert(ctx, p); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, p.Username); err != nil {
		logrus.Warnf("failed to evict profile %s from cache: %v", p.Username, err)
	}
	return nil
}

func (r *profileRepository) load(ctx context.Context, usernames []string) ([]domain.Profile, error) {
	return r.db.GetByUsernames(ctx, usernames)
}

// store caches loaded profiles and marks the rest of usernames as missing
func (r *profileRepository) store(ctx context.Context, usernames []string, loaded []domain.Profile) {
	byName := make(map[string]domain.Profile, len(loaded))
	for _, p := range loaded {
		byName[p.Username] = p
	}
	entries := make([]domain.CachedProfile, 0, len(usernames))
	for _, u := range usernames {
		if p, ok := byName[u]; ok {
			entries = append(entries, domain.CachedProfile{Profile: p})
			continue
		}
		entries = append(entries, domain.CachedProfile{Profile: domain.Profile{Username: u}, Missing: true})
	}
	if err := r.cache.MSet(ctx, entries, r.ttl); err != nil {
		logrus.Warnf("failed to cache profiles: %v", err)
	}
}

// rebuild 异步刷新逻辑过期的缓存
func (r *profileRepository) rebuild(ctx context.Context, usernames []string) {
	key := "rebuild:" + strings.Join(usernames, ",")
	_, err, _ := r.rebuildGroup.Do(key, func() (any, error) {
		loaded, err := r.load(ctx, usernames)
		if err != nil {
			return nil, err
		}
		r.store(ctx, usernames, loaded)
		return nil, nil
	})
	if err != nil {
		logrus.Errorf("rebuild profile cache failed: %v", err)
	}
}
