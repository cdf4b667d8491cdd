package db

import (
	"context"
	"fmt"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
)

type marketRepository struct {
	DB *gorm.DB
}

var _ domain.MarketRepository = (*marketRepository)(nil)

func NewMarketRepository(db *gorm.DB) *marketRepository {
	return &marketRepository{
		DB: db,
	}
}

func (m *marketRepository) Fetch(ctx context.Context) ([]domain.MarketItem, error) {
	var items []model.MarketItem
	if err := m.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("fetch market items: %w", err)
	}

	res := make([]domain.MarketItem, 0, len(items))
	for i := range items {
		res = append(res, items[i].ToDomain())
	}
	return res, nil
}

func (m *marketRepository) Store(ctx context.Context, item *domain.MarketItem) error {
	row := model.NewMarketItemFromDomain(item)
	if err := m.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("store market item: %w", err)
	}
	item.ID = row.ID
	item.CreatedAt = row.CreatedAt
	return nil
}
