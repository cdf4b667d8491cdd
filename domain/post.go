package domain

import (
	"context"
	"time"
)

// Post is a text post inside a community feed
type Post struct {
	ID            int64     // Backend assigned identifier
	Author        string    // Handle of the author
	Content       string    // Post body
	CommunitySlug string    // Community the post belongs to
	LikesCount    int64     // Server-side like counter, may lag behind the likes table
	CreatedAt     time.Time // Creation timestamp
}

// PostFilter narrows a feed query. Empty fields match everything.
type PostFilter struct {
	CommunitySlug string
	Author        string
}

// PostRepository defines the contract for post persistence
type PostRepository interface {
	// Fetch lists posts newest first.
	// cursor: encoded created_at of the last post seen, empty for the first page.
	// num <= 0 means no limit.
	Fetch(ctx context.Context, filter PostFilter, cursor string, num int64) ([]Post, error)

	// GetByID returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id int64) (Post, error)

	// Store backfills ID and CreatedAt.
	Store(ctx context.Context, p *Post) error

	// UpdateLikesCount overwrites the stored likes_count of a post.
	UpdateLikesCount(ctx context.Context, id int64, count int64) error

	// RecountLikes sets likes_count of every given post to the number of its like records.
	RecountLikes(ctx context.Context, ids []int64) error
}
