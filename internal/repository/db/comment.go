package db

import (
	"context"
	"fmt"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
)

type commentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) FetchByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("fetch comments of post %d: %w", postID, err)
	}

	res := make([]domain.Comment, 0, len(comments))
	for i := range comments {
		res = append(res, comments[i].ToDomain())
	}
	return res, nil
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	m := model.NewCommentFromDomain(comment)
	if err := c.DB.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("store comment: %w", err)
	}
	comment.ID = m.ID
	comment.CreatedAt = m.CreatedAt
	return nil
}

var _ domain.CommentRepository = (*commentRepository)(nil)
