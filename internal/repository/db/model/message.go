package model

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type Message struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	CommunitySlug string    `gorm:"column:community_slug;not null;index"`
	Author        string    `gorm:"column:user_display_name;not null"`
	Content       string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"index"`
}

func (Message) TableName() string {
	return "messages"
}

func NewMessageFromDomain(m *domain.Message) *Message {
	return &Message{
		ID:            m.ID,
		CommunitySlug: m.CommunitySlug,
		Author:        m.Author,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
}

func (m *Message) ToDomain() domain.Message {
	return domain.Message{
		ID:            m.ID,
		CommunitySlug: m.CommunitySlug,
		Author:        m.Author,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
}
