package db

import (
	"context"
	"fmt"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	DB *gorm.DB
}

var _ domain.LikeRepository = (*likeRepository)(nil)

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{
		DB: db,
	}
}

func (l *likeRepository) Exists(ctx context.Context, postID int64, voter string) (bool, error) {
	var count int64
	err := l.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("post_id = ? AND user_email = ?", postID, voter).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check like of post %d: %w", postID, err)
	}
	return count > 0, nil
}

func (l *likeRepository) Store(ctx context.Context, like domain.Like) error {
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	m := model.NewLikeFromDomain(like)
	err := l.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("store like of post %d: %w", like.PostID, err)
	}
	return nil
}

func (l *likeRepository) Delete(ctx context.Context, postID int64, voter string) error {
	err := l.DB.WithContext(ctx).
		Where("post_id = ? AND user_email = ?", postID, voter).
		Delete(&model.Like{}).Error
	if err != nil {
		return fmt.Errorf("delete like of post %d: %w", postID, err)
	}
	return nil
}
