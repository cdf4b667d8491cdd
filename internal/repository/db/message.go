package db

import (
	"context"
	"fmt"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
)

type messageRepository struct {
	DB *gorm.DB
}

var _ domain.MessageRepository = (*messageRepository)(nil)

func NewMessageRepository(db *gorm.DB) *messageRepository {
	return &messageRepository{
		DB: db,
	}
}

func (m *messageRepository) FetchByCommunity(ctx context.Context, slug string) ([]domain.Message, error) {
	var messages []model.Message
	err := m.DB.WithContext(ctx).
		Where("community_slug = ?", slug).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("fetch messages of %s: %w", slug, err)
	}

	res := make([]domain.Message, 0, len(messages))
	for i := range messages {
		res = append(res, messages[i].ToDomain())
	}
	return res, nil
}

func (m *messageRepository) Store(ctx context.Context, msg *domain.Message) error {
	row := model.NewMessageFromDomain(msg)
	if err := m.DB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("store message: %w", err)
	}
	msg.ID = row.ID
	msg.CreatedAt = row.CreatedAt
	return nil
}
