package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
)

type communityRepository struct {
	DB *gorm.DB
}

var _ domain.CommunityRepository = (*communityRepository)(nil)

func NewCommunityRepository(db *gorm.DB) *communityRepository {
	return &communityRepository{
		DB: db,
	}
}

func (c *communityRepository) Fetch(ctx context.Context) ([]domain.Community, error) {
	var communities []model.Community
	if err := c.DB.WithContext(ctx).Order("name ASC").Find(&communities).Error; err != nil {
		return nil, fmt.Errorf("fetch communities: %w", err)
	}

	res := make([]domain.Community, 0, len(communities))
	for i := range communities {
		res = append(res, communities[i].ToDomain())
	}
	return res, nil
}

func (c *communityRepository) GetBySlug(ctx context.Context, slug string) (domain.Community, error) {
	var community model.Community
	err := c.DB.WithContext(ctx).Where("slug = ?", slug).Take(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Community{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Community{}, fmt.Errorf("get community %s: %w", slug, err)
	}
	return community.ToDomain(), nil
}
