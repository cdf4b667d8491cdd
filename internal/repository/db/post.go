package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
)

type postRepository struct {
	DB *gorm.DB
}

var _ domain.PostRepository = (*postRepository)(nil)

func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{
		DB: db,
	}
}

func (p *postRepository) Fetch(ctx context.Context, filter domain.PostFilter, cursor string, num int64) ([]domain.Post, error) {
	query := p.DB.WithContext(ctx).Model(&model.Post{})
	if filter.CommunitySlug != "" {
		query = query.Where("community_slug = ?", filter.CommunitySlug)
	}
	if filter.Author != "" {
		query = query.Where("user_display_name = ?", filter.Author)
	}
	if cursor != "" {
		decodedCursor, err := repository.DecodeCursor(cursor)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		query = query.Where("created_at < ?", decodedCursor)
	}
	if num > 0 {
		query = query.Limit(int(num))
	}

	var posts []model.Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	res := make([]domain.Post, 0, len(posts))
	for i := range posts {
		res = append(res, posts[i].ToDomain())
	}
	return res, nil
}

func (p *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	var post model.Post
	err := p.DB.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Post{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return post.ToDomain(), nil
}

func (p *postRepository) Store(ctx context.Context, post *domain.Post) error {
	m := model.NewPostFromDomain(post)
	if err := p.DB.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("store post: %w", err)
	}
	post.ID = m.ID
	post.CreatedAt = m.CreatedAt
	return nil
}

func (p *postRepository) UpdateLikesCount(ctx context.Context, id int64, count int64) error {
	err := p.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", count).Error
	if err != nil {
		return fmt.Errorf("update likes_count of post %d: %w", id, err)
	}
	return nil
}

// RecountLikes 以 likes 表为准重算 likes_count
func (p *postRepository) RecountLikes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			var realCount int64
			if err := tx.Model(&model.Like{}).Where("post_id = ?", id).Count(&realCount).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Post{}).Where("id = ?", id).UpdateColumn("likes_count", realCount).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
