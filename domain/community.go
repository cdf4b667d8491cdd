package domain

import (
	"context"
	"time"
)

// Community groups posts and a chat lounge under a slug
type Community struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	CreatedAt   time.Time
}

type CommunityRepository interface {
	// Fetch lists all communities ordered by name
	Fetch(ctx context.Context) ([]Community, error)

	// GetBySlug returns ErrNotFound for an unknown slug
	GetBySlug(ctx context.Context, slug string) (Community, error)
}
