package domain

import (
	"context"
	"time"
)

// Comment is a flat reply to a post
type Comment struct {
	ID        int64     `json:"id"`
	PendingID string    `json:"pending_id,omitempty"` // set only while the comment is not confirmed
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Pending reports whether the comment only exists locally
func (c Comment) Pending() bool {
	return c.PendingID != ""
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	// FetchByPost lists the comments of a post oldest first
	FetchByPost(ctx context.Context, postID int64) ([]Comment, error)
	Store(ctx context.Context, c *Comment) error
}
