package domain

import (
	"context"
	"time"
)

// Profile holds the optional images of a handle
type Profile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	BannerURL string `json:"banner_url"`
}

// CachedProfile is a profile cache entry.
// Missing marks a handle known to have no profile record.
type CachedProfile struct {
	Profile Profile
	Missing bool
	Expired bool // logically expired, still usable while a refresh runs
}

// ProfileRepository defines the contract for profile persistence
type ProfileRepository interface {
	// GetByUsername returns ErrNotFound if the handle has no profile.
	GetByUsername(ctx context.Context, username string) (Profile, error)

	// GetByUsernames resolves many handles at once. Unknown handles are absent
	// from the result.
	GetByUsernames(ctx context.Context, usernames []string) ([]Profile, error)

	Upsert(ctx context.Context, p *Profile) error
}

type ProfileCache interface {
	// MGet returns the entries found, keyed by handle
	MGet(ctx context.Context, usernames []string) (map[string]CachedProfile, error)
	MSet(ctx context.Context, entries []CachedProfile, ttl time.Duration) error
	Delete(ctx context.Context, username string) error
}
