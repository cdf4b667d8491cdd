package model

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type Post struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	Author        string    `gorm:"column:user_display_name;not null"`
	Content       string    `gorm:"type:text;not null"`
	CommunitySlug string    `gorm:"column:community_slug;index"`
	LikesCount    int64     `gorm:"column:likes_count;default:0"`
	CreatedAt     time.Time `gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:            p.ID,
		Author:        p.Author,
		Content:       p.Content,
		CommunitySlug: p.CommunitySlug,
		LikesCount:    p.LikesCount,
		CreatedAt:     p.CreatedAt,
	}
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:            m.ID,
		Author:        m.Author,
		Content:       m.Content,
		CommunitySlug: m.CommunitySlug,
		LikesCount:    m.LikesCount,
		CreatedAt:     m.CreatedAt,
	}
}
