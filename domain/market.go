package domain

import (
	"context"
	"time"
)

// MarketItem is a listing in the marketplace
type MarketItem struct {
	ID          int64
	Title       string
	Price       float64
	ImageURL    string
	SellerEmail string
	CreatedAt   time.Time
}

type MarketRepository interface {
	// Fetch lists items newest first
	Fetch(ctx context.Context) ([]MarketItem, error)
	Store(ctx context.Context, item *MarketItem) error
}
