package model

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type MarketItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	ImageURL    string  `gorm:"column:image_url"`
	SellerEmail string  `gorm:"column:seller_email;not null"`
	CreatedAt   time.Time
}

func (MarketItem) TableName() string {
	return "market_items"
}

func NewMarketItemFromDomain(i *domain.MarketItem) *MarketItem {
	return &MarketItem{
		ID:          i.ID,
		Title:       i.Title,
		Price:       i.Price,
		ImageURL:    i.ImageURL,
		SellerEmail: i.SellerEmail,
		CreatedAt:   i.CreatedAt,
	}
}

func (m *MarketItem) ToDomain() domain.MarketItem {
	return domain.MarketItem{
		ID:          m.ID,
		Title:       m.Title,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		SellerEmail: m.SellerEmail,
		CreatedAt:   m.CreatedAt,
	}
}
