package chat

import (
	"context"
	"sync"

	"github.com/senuthbros6699-eng/dialect/domain"
)

// Slot holds at most one open Session per viewer
type Slot struct {
	cfg    Config
	viewer *domain.Viewer

	mu      sync.Mutex
	current *Session
}

func NewSlot(viewer *domain.Viewer, cfg Config) *Slot {
	return &Slot{
		cfg:    cfg,
		viewer: viewer,
	}
}

// Open tears down the current session and opens community
func (s *Slot) Open(ctx context.Context, community string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	sess, err := openSession(ctx, community, s.viewer, s.cfg)
	if err != nil {
		return nil, err
	}
	s.current = sess
	return sess, nil
}

// Ensure returns the open session of community, opening it when needed
func (s *Slot) Ensure(ctx context.Context, community string) (*Session, error) {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()

	if cur != nil && cur.Community() == community && !cur.Closed() {
		return cur, nil
	}
	return s.Open(ctx, community)
}

// Current is the open session, nil when there is none
func (s *Slot) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Closed() {
		return nil
	}
	return s.current
}

func (s *Slot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Slot) closeLocked() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
