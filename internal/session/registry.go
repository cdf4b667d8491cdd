// Package session keeps the component state of every viewer between requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/chat"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/comment"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/like"
	"github.com/sirupsen/logrus"
)

// Config is shared by all sessions. Each session plugs in its own notifier.
type Config struct {
	Posts       domain.PostRepository
	Like        like.Config
	Comment     comment.Config
	Chat        chat.Config
	NoticeLimit int
}

// Session is the state one viewer builds up across requests
type Session struct {
	viewer  *domain.Viewer
	cfg     Config
	notices *Notices
	chat    *chat.Slot

	mu       sync.Mutex
	likes    map[int64]*like.Toggle
	threads  map[int64]*comment.Thread
	lastSeen time.Time
}

func newSession(viewer *domain.Viewer, cfg Config, now time.Time) *Session {
	notices := NewNotices(cfg.NoticeLimit)
	cfg.Like.Notifier = notices
	cfg.Comment.Notifier = notices
	cfg.Chat.Notifier = notices
	return &Session{
		viewer:   viewer,
		cfg:      cfg,
		notices:  notices,
		chat:     chat.NewSlot(viewer, cfg.Chat),
		likes:    make(map[int64]*like.Toggle),
		threads:  make(map[int64]*comment.Thread),
		lastSeen: now,
	}
}

// Viewer is nil for anonymous sessions
func (s *Session) Viewer() *domain.Viewer {
	return s.viewer
}

// Ephemeral sessions belong to a single anonymous request
func (s *Session) Ephemeral() bool {
	return s.viewer == nil
}

func (s *Session) Notices() *Notices {
	return s.notices
}

func (s *Session) Chat() *chat.Slot {
	return s.chat
}

// Like returns the toggle of postID. A new toggle is loaded from the backend,
// an existing one is refreshed unless it still has flips in flight.
func (s *Session) Like(ctx context.Context, postID int64) (*like.Toggle, error) {
	s.mu.Lock()
	t, ok := s.likes[postID]
	s.mu.Unlock()
	if ok {
		if _, err := t.Refresh(ctx); err != nil {
			return nil, err
		}
		return t, nil
	}

	post, err := s.cfg.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	t = like.NewToggle(post, s.viewer, s.cfg.Like)
	if _, err := t.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 并发请求可能已经创建
	if existing, ok := s.likes[postID]; ok {
		return existing, nil
	}
	s.likes[postID] = t
	return t, nil
}

// Thread returns the comment thread of postID, collapsed on first use
func (s *Session) Thread(ctx context.Context, postID int64) (*comment.Thread, error) {
	s.mu.Lock()
	t, ok := s.threads[postID]
	s.mu.Unlock()
	if ok {
		return t, nil
	}

	if _, err := s.cfg.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.threads[postID]; ok {
		return existing, nil
	}
	t = comment.NewThread(postID, s.viewer, s.cfg.Comment)
	s.threads[postID] = t
	return t, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close tears down the chat subscription. Background writes keep running.
func (s *Session) Close() error {
	return s.chat.Close()
}

// Registry maps signed-in viewers to their sessions
type Registry struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the viewer's session, creating it on first use.
// A nil viewer gets a fresh ephemeral session that is not kept.
func (r *Registry) Get(viewer *domain.Viewer) *Session {
	now := r.now()
	if viewer == nil {
		return newSession(nil, r.cfg, now)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[viewer.ID]
	if !ok {
		v := *viewer
		s = newSession(&v, r.cfg, now)
		r.sessions[viewer.ID] = s
		logrus.WithField("viewer", viewer.ID).Debug("session created")
		return s
	}
	s.touch(now)
	return s
}

// Drop closes and forgets the session of viewerID
func (r *Registry) Drop(viewerID string) {
	r.mu.Lock()
	s, ok := r.sessions[viewerID]
	delete(r.sessions, viewerID)
	r.mu.Unlock()

	if !ok {
		return
	}
	log := logrus.WithField("viewer", viewerID)
	if err := s.Close(); err != nil {
		log.Warnf("failed to close session: %v", err)
		return
	}
	log.Info("session dropped")
}

// Sweep drops every session idle for longer than maxIdle and reports how many
func (r *Registry) Sweep(maxIdle time.Duration) int {
	deadline := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []string
	for id, s := range r.sessions {
		if s.idleSince().Before(deadline) {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	for _, id := range idle {
		r.Drop(id)
	}
	return len(idle)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close drops every session
func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Drop(id)
	}
}
