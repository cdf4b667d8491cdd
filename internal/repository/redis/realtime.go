package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

const ChannelRealtime = "realtime:%s"

type realtime struct {
	client *redis.Client
}

var _ domain.Realtime = (*realtime)(nil)

// NewRealtime fans inserted records out over redis pub/sub
func NewRealtime(client *redis.Client) *realtime {
	return &realtime{
		client: client,
	}
}

func channelOf(collection string) string {
	return fmt.Sprintf(ChannelRealtime, collection)
}

func (r *realtime) Publish(ctx context.Context, collection string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channelOf(collection), data).Err()
}

func (r *realtime) Subscribe(ctx context.Context, collection string, filter domain.Filter, handler func(payload []byte)) (domain.Subscription, error) {
	ps := r.client.Subscribe(ctx, channelOf(collection))
	// wait for the subscription confirmation so no insert after this call is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", collection, err)
	}

	sub := &subscription{ps: ps}
	go sub.run(filter, handler)
	return sub, nil
}

type subscription struct {
	ps   *redis.PubSub
	once sync.Once
	err  error
}

func (s *subscription) run(filter domain.Filter, handler func(payload []byte)) {
	for msg := range s.ps.Channel() {
		payload := []byte(msg.Payload)
		if !filter.Match(payload) {
			continue
		}
		handler(payload)
	}
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.err = s.ps.Close()
		if s.err != nil {
			logrus.Warnf("failed to close realtime subscription: %v", s.err)
		}
	})
	return s.err
}
