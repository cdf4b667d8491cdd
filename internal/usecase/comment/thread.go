package comment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

type State int

const (
	Collapsed State = iota
	Loading
	Expanded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Expanded:
		return "expanded"
	default:
		return "collapsed"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// View is the thread as the viewer sees it
type View struct {
	PostID   int64            `json:"post_id"`
	State    State            `json:"state"`
	Comments []domain.Comment `json:"comments"`
	Empty    bool             `json:"empty"`
}

type Config struct {
	Comments domain.CommentRepository
	Notifier domain.Notifier

	// PersistTimeout bounds each background write, 0 means no bound
	PersistTimeout time.Duration
}

// Thread lazily loads the comments of one post and appends new ones optimistically
type Thread struct {
	cfg    Config
	viewer *domain.Viewer
	postID int64

	mu       sync.Mutex
	state    State
	loads    uint64 // bumped on every expansion so stale loads are ignored
	comments []domain.Comment
	writes   sync.WaitGroup
}

func NewThread(postID int64, viewer *domain.Viewer, cfg Config) *Thread {
	return &Thread{
		cfg:    cfg,
		viewer: viewer,
		postID: postID,
		state:  Collapsed,
	}
}

func (t *Thread) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *Thread) viewLocked() View {
	comments := make([]domain.Comment, len(t.comments))
	copy(comments, t.comments)
	return View{
		PostID:   t.postID,
		State:    t.state,
		Comments: comments,
		Empty:    t.state == Expanded && len(comments) == 0,
	}
}

// Expand fetches the comments once per expansion. An expanded thread is returned as is.
func (t *Thread) Expand(ctx context.Context) (View, error) {
	t.mu.Lock()
	if t.state != Collapsed {
		v := t.viewLocked()
		t.mu.Unlock()
		return v, nil
	}
	t.state = Loading
	t.loads++
	load := t.loads
	t.mu.Unlock()

	fetched, err := t.cfg.Comments.FetchByPost(ctx, t.postID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if load != t.loads || t.state != Loading {
		// collapsed meanwhile
		return t.viewLocked(), nil
	}
	if err != nil {
		t.state = Collapsed
		logrus.Errorf("failed to load comments of post %d: %v", t.postID, err)
		t.notify("Could not load comments.")
		return t.viewLocked(), err
	}

	merged := make([]domain.Comment, 0, len(fetched)+len(t.comments))
	merged = append(merged, fetched...)
	known := make(map[int64]struct{}, len(fetched))
	for _, c := range fetched {
		known[c.ID] = struct{}{}
	}
	// 本地条目：未确认的，或在读取之后才确认、不在结果里的
	for _, c := range t.comments {
		if c.Pending() {
			merged = append(merged, c)
			continue
		}
		if _, ok := known[c.ID]; !ok {
			known[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}
	t.comments = merged
	t.state = Expanded
	return t.viewLocked(), nil
}

// Collapse hides the thread. Unconfirmed comments are kept.
func (t *Thread) Collapse() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Collapsed
	pending := t.comments[:0:0]
	for _, c := range t.comments {
		if c.Pending() {
			pending = append(pending, c)
		}
	}
	t.comments = pending
	return t.viewLocked()
}

func (t *Thread) Toggle(ctx context.Context) (View, error) {
	t.mu.Lock()
	state := t.state
	t.mu.Unlock()

	if state == Collapsed {
		return t.Expand(ctx)
	}
	return t.Collapse(), nil
}

// PostComment appends a pending comment at once and stores it in the background
func (t *Thread) PostComment(ctx context.Context, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		t.notify("Please write something first.")
		return domain.Comment{}, domain.ErrEmptyContent
	}
	if t.viewer == nil {
		t.notify("Please sign in to comment.")
		return domain.Comment{}, domain.ErrUnauthenticated
	}

	pending := domain.Comment{
		PendingID: ulid.Make().String(),
		PostID:    t.postID,
		Author:    t.viewer.Handle(),
		Content:   text,
		CreatedAt: time.Now(),
	}

	t.mu.Lock()
	t.comments = append(t.comments, pending)
	t.writes.Add(1)
	t.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		defer t.writes.Done()
		t.persist(detached, pending)
	}()

	return pending, nil
}

// Wait blocks until every pending comment was confirmed or dropped
func (t *Thread) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.writes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Thread) persist(ctx context.Context, pending domain.Comment) {
	if t.cfg.PersistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.PersistTimeout)
		defer cancel()
	}

	stored := pending
	stored.PendingID = ""
	err := t.cfg.Comments.Store(ctx, &stored)

	t.mu.Lock()
	defer t.mu.Unlock()
	idx := -1
	for i, c := range t.comments {
		if c.PendingID == pending.PendingID {
			idx = i
			break
		}
	}

	if err != nil {
		if idx >= 0 {
			t.comments = append(t.comments[:idx], t.comments[idx+1:]...)
		}
		logrus.Errorf("failed to store comment on post %d: %v", t.postID, err)
		t.notify("Could not post your comment.")
		return
	}

	if idx < 0 {
		return
	}
	for _, c := range t.comments {
		if !c.Pending() && c.ID == stored.ID {
			// a reload already brought the stored copy
			t.comments = append(t.comments[:idx], t.comments[idx+1:]...)
			return
		}
	}
	t.comments[idx] = stored
}

func (t *Thread) notify(msg string) {
	if t.cfg.Notifier != nil {
		t.cfg.Notifier.Notify(domain.NewNotice(msg))
	}
}
