package market

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

// Listing is what a seller submits
type Listing struct {
	Title       string  `validate:"required,max=200"`
	Price       float64 `validate:"gt=0"`
	Filename    string  `validate:"required"`
	ContentType string
	Image       io.Reader `validate:"required"`
}

type Service struct {
	items    domain.MarketRepository
	blobs    domain.BlobStore
	validate *validator.Validate
	now      func() time.Time
}

func NewService(items domain.MarketRepository, blobs domain.BlobStore) *Service {
	return &Service{
		items:    items,
		blobs:    blobs,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Fetch lists items newest first
func (s *Service) Fetch(ctx context.Context) ([]domain.MarketItem, error) {
	return s.items.Fetch(ctx)
}

// Sell uploads the listing image and stores the item under the viewer's e-mail
func (s *Service) Sell(ctx context.Context, viewer *domain.Viewer, l Listing) (domain.MarketItem, error) {
	if viewer == nil {
		return domain.MarketItem{}, domain.ErrUnauthenticated
	}
	if err := s.validate.Struct(l); err != nil {
		logrus.Warnf("invalid listing from %s: %v", viewer.Email, err)
		return domain.MarketItem{}, domain.ErrBadParamInput
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), path.Base(l.Filename))
	publicURL, err := s.blobs.Upload(ctx, domain.BucketMarketplace, name, l.ContentType, l.Image)
	if err != nil {
		return domain.MarketItem{}, fmt.Errorf("upload listing image: %w", err)
	}

	item := domain.MarketItem{
		Title:       l.Title,
		Price:       l.Price,
		ImageURL:    publicURL,
		SellerEmail: viewer.Email,
	}
	if err := s.items.Store(ctx, &item); err != nil {
		return domain.MarketItem{}, err
	}
	return item, nil
}
