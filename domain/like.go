package domain

import (
	"context"
	"time"
)

// Like is one viewer's like of one post. (PostID, Voter) is unique.
type Like struct {
	PostID    int64
	Voter     string // e-mail of the viewer
	CreatedAt time.Time
}

// LikeRepository defines the contract for like records
type LikeRepository interface {
	Exists(ctx context.Context, postID int64, voter string) (bool, error)

	// Store succeeds when the record already exists.
	Store(ctx context.Context, l Like) error

	// Delete succeeds when there is nothing to delete.
	Delete(ctx context.Context, postID int64, voter string) error
}
