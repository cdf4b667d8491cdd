package domain

import (
	"context"
	"time"
)

// Message is a chat line inside a community lounge
type Message struct {
	ID            int64     `json:"id"`
	CommunitySlug string    `json:"community_slug"`
	Author        string    `json:"user_display_name"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// MessageRepository defines the contract for chat history
type MessageRepository interface {
	// FetchByCommunity lists the messages of a community oldest first
	FetchByCommunity(ctx context.Context, slug string) ([]Message, error)

	// Store backfills ID and CreatedAt.
	Store(ctx context.Context, m *Message) error
}
