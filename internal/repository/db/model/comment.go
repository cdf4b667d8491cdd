package model

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;index"`
	Author    string    `gorm:"column:user_display_name;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		Author:    m.Author,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
