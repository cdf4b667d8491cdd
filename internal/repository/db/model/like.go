package model

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type Like struct {
	PostID    int64  `gorm:"column:post_id;not null;uniqueIndex:idx_like_voter"`
	Voter     string `gorm:"column:user_email;not null;uniqueIndex:idx_like_voter"`
	CreatedAt time.Time
}

func (Like) TableName() string {
	return "likes"
}

func NewLikeFromDomain(l domain.Like) Like {
	return Like{
		PostID:    l.PostID,
		Voter:     l.Voter,
		CreatedAt: l.CreatedAt,
	}
}
