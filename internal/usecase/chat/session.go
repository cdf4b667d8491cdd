package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

// Ordering decides where a live message lands in the visible list
type Ordering int

const (
	// OrderByCreation keeps the list sorted by created_at
	OrderByCreation Ordering = iota
	// OrderByArrival appends in delivery order
	OrderByArrival
)

func ParseOrdering(s string) Ordering {
	if strings.EqualFold(s, "arrival") {
		return OrderByArrival
	}
	return OrderByCreation
}

type Config struct {
	Messages domain.MessageRepository
	Realtime domain.Realtime
	Notifier domain.Notifier
	Ordering Ordering
}

// Session is the live view of one community's lounge
type Session struct {
	cfg       Config
	viewer    *domain.Viewer
	community string
	sub       domain.Subscription
	closeOnce sync.Once

	mu           sync.Mutex
	messages     []domain.Message
	seen         map[int64]struct{}
	loaded       bool
	buffered     []domain.Message
	listeners    map[int]chan domain.Message
	nextListener int
	closed       bool
}

// openSession subscribes before loading history so nothing inserted in between is lost
func openSession(ctx context.Context, community string, viewer *domain.Viewer, cfg Config) (*Session, error) {
	s := &Session{
		cfg:       cfg,
		viewer:    viewer,
		community: community,
		seen:      make(map[int64]struct{}),
		listeners: make(map[int]chan domain.Message),
	}

	sub, err := cfg.Realtime.Subscribe(ctx, domain.CollectionMessages, domain.Filter{
		Column: "community_slug",
		Value:  community,
	}, s.onPayload)
	if err != nil {
		s.notify("Could not connect to the chat.")
		return nil, fmt.Errorf("subscribe to %s lounge: %w", community, err)
	}
	s.sub = sub

	history, err := cfg.Messages.FetchByCommunity(ctx, community)
	if err != nil {
		_ = sub.Close()
		s.notify("Could not load the chat history.")
		return nil, fmt.Errorf("load %s lounge: %w", community, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range history {
		s.appendLocked(m)
	}
	for _, m := range s.buffered {
		s.appendLocked(m)
	}
	s.buffered = nil
	s.loaded = true
	return s, nil
}

func (s *Session) Community() string {
	return s.community
}

// Messages returns a copy of the visible list
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]domain.Message, len(s.messages))
	copy(res, s.messages)
	return res
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Send stores a message as the viewer. The realtime echo and the local
// append are deduplicated, so it shows up exactly once.
func (s *Session) Send(ctx context.Context, text string) (domain.Message, error) {
	if s.viewer == nil {
		s.notify("Please sign in to chat.")
		return domain.Message{}, domain.ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.notify("Please write something first.")
		return domain.Message{}, domain.ErrEmptyContent
	}
	if s.Closed() {
		return domain.Message{}, domain.ErrSessionClosed
	}

	m := &domain.Message{
		CommunitySlug: s.community,
		Author:        s.viewer.Handle(),
		Content:       text,
	}
	if err := s.cfg.Messages.Store(ctx, m); err != nil {
		logrus.Errorf("failed to send message to %s: %v", s.community, err)
		s.notify("Could not send your message.")
		return domain.Message{}, err
	}

	s.mu.Lock()
	if !s.closed && s.loaded {
		s.appendLocked(*m)
	}
	s.mu.Unlock()
	return *m, nil
}

// Listen streams messages appended from now on. cancel stops the stream;
// the channel is also closed when the session closes.
func (s *Session) Listen(buffer int) (<-chan domain.Message, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.Message, buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.nextListener++
	id := s.nextListener
	s.listeners[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.listeners[id]; ok {
			delete(s.listeners, id)
			close(c)
		}
	}
}

// Close ends the subscription. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		for id, c := range s.listeners {
			delete(s.listeners, id)
			close(c)
		}
		s.mu.Unlock()

		if s.sub != nil {
			err = s.sub.Close()
		}
	})
	return err
}

func (s *Session) onPayload(payload []byte) {
	var m domain.Message
	if err := json.Unmarshal(payload, &m); err != nil {
		logrus.Warnf("dropping malformed message payload: %v", err)
		return
	}
	if m.CommunitySlug != s.community {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if !s.loaded {
		s.buffered = append(s.buffered, m)
		return
	}
	s.appendLocked(m)
}

// appendLocked adds m unless it was seen before. Caller holds mu.
func (s *Session) appendLocked(m domain.Message) {
	if _, dup := s.seen[m.ID]; dup {
		return
	}
	s.seen[m.ID] = struct{}{}

	n := len(s.messages)
	if s.cfg.Ordering == OrderByArrival || n == 0 || !m.CreatedAt.Before(s.messages[n-1].CreatedAt) {
		s.messages = append(s.messages, m)
	} else {
		idx := sort.Search(n, func(i int) bool {
			return s.messages[i].CreatedAt.After(m.CreatedAt)
		})
		s.messages = append(s.messages, domain.Message{})
		copy(s.messages[idx+1:], s.messages[idx:])
		s.messages[idx] = m
	}

	for _, c := range s.listeners {
		select {
		case c <- m:
		default:
			logrus.Warnf("chat listener on %s is full, message %d dropped", s.community, m.ID)
		}
	}
}

func (s *Session) notify(msg string) {
	if s.cfg.Notifier != nil {
		s.cfg.Notifier.Notify(domain.NewNotice(msg))
	}
}
