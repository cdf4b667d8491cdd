package repository

import (
	"context"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

// messageRepository stores chat messages and announces them on the realtime channel
type messageRepository struct {
	db       domain.MessageRepository
	realtime domain.Realtime
}

var _ domain.MessageRepository = (*messageRepository)(nil)

func NewMessageRepository(db domain.MessageRepository, realtime domain.Realtime) *messageRepository {
	return &messageRepository{
		db:       db,
		realtime: realtime,
	}
}

func (r *messageRepository) FetchByCommunity(ctx context.Context, slug string) ([]domain.Message, error) {
	return r.db.FetchByCommunity(ctx, slug)
}

// Store persists m first. A failed publish is logged; the message stays stored
// and shows up with the next history load.
func (r *messageRepository) Store(ctx context.Context, m *domain.Message) error {
	if err := r.db.Store(ctx, m); err != nil {
		return err
	}
	if err := r.realtime.Publish(ctx, domain.CollectionMessages, *m); err != nil {
		logrus.Errorf("failed to publish message %d: %v", m.ID, err)
	}
	return nil
}
