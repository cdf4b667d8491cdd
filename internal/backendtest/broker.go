package backendtest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/senuthbros6699-eng/dialect/domain"
)

// Broker is an in-process realtime channel. Publish delivers synchronously.
type Broker struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]*brokerSub
	failErr error
}

type brokerSub struct {
	collection string
	filter     domain.Filter
	handler    func([]byte)
}

var _ domain.Realtime = (*Broker)(nil)

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*brokerSub)}
}

// FailSubscribe makes following Subscribe calls return err (nil restores)
func (b *Broker) FailSubscribe(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

func (b *Broker) Subscribe(_ context.Context, collection string, filter domain.Filter, handler func(payload []byte)) (domain.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return nil, b.failErr
	}
	b.nextID++
	id := b.nextID
	b.subs[id] = &brokerSub{collection: collection, filter: filter, handler: handler}
	return &brokerHandle{broker: b, id: id}, nil
}

func (b *Broker) Publish(_ context.Context, collection string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	for _, s := range b.matching(collection, data, false) {
		s.handler(data)
	}
	return nil
}

// Inject delivers record to every subscriber of collection, ignoring filters
func (b *Broker) Inject(collection string, record any) {
	data, _ := json.Marshal(record)
	for _, s := range b.matching(collection, data, true) {
		s.handler(data)
	}
}

// Active counts open subscriptions on collection
func (b *Broker) Active(collection string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.subs {
		if s.collection == collection {
			n++
		}
	}
	return n
}

func (b *Broker) matching(collection string, data []byte, ignoreFilter bool) []*brokerSub {
	b.mu.Lock()
	defer b.mu.Unlock()
	var res []*brokerSub
	for _, s := range b.subs {
		if s.collection != collection {
			continue
		}
		if !ignoreFilter && !s.filter.Match(data) {
			continue
		}
		res = append(res, s)
	}
	return res
}

type brokerHandle struct {
	broker *Broker
	id     int
	once   sync.Once
}

func (h *brokerHandle) Close() error {
	h.once.Do(func() {
		h.broker.mu.Lock()
		delete(h.broker.subs, h.id)
		h.broker.mu.Unlock()
	})
	return nil
}
