package like

import (
	"context"
	"sync"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type State int

const (
	Unknown State = iota
	Liked
	Unliked
)

func (s State) String() string {
	switch s {
	case Liked:
		return "liked"
	case Unliked:
		return "unliked"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is what the viewer currently sees for one post
type Snapshot struct {
	PostID  int64 `json:"post_id"`
	State   State `json:"state"`
	Count   int64 `json:"likes_count"`
	Pending int   `json:"pending"`
}

func (s Snapshot) Liked() bool {
	return s.State == Liked
}

// Config carries the backend handles of a Toggle
type Config struct {
	Likes      domain.LikeRepository
	Posts      domain.PostRepository
	Reconciler domain.LikeReconciler
	Notifier   domain.Notifier

	// PersistTimeout bounds each background write, 0 means no bound
	PersistTimeout time.Duration
}

// pendingOp is one optimistic flip waiting for the backend
type pendingOp struct {
	seq       uint64
	from, to  State
	toCount   int64
	fromCount int64
}

// Toggle is the like button of one post for one viewer.
// Flips apply locally at once and persist in the background, in issue order.
type Toggle struct {
	cfg    Config
	viewer *domain.Viewer
	postID int64

	mu      sync.Mutex
	state   State
	count   int64
	seq     uint64
	pending int
	// last state the backend confirmed, restored when the latest op fails
	stableState State
	stableCount int64
	tail        chan struct{}
}

func NewToggle(post domain.Post, viewer *domain.Viewer, cfg Config) *Toggle {
	done := make(chan struct{})
	close(done)
	count := max(0, post.LikesCount)
	return &Toggle{
		cfg:         cfg,
		viewer:      viewer,
		postID:      post.ID,
		state:       Unknown,
		count:       count,
		stableState: Unknown,
		stableCount: count,
		tail:        done,
	}
}

// Load resolves Unknown into Liked or Unliked. Without a viewer the post is Unliked.
func (t *Toggle) Load(ctx context.Context) (Snapshot, error) {
	resolved, err := t.resolve(ctx)
	if err != nil {
		return t.Snapshot(), err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Unknown {
		t.state = resolved
	}
	if t.stableState == Unknown {
		t.stableState = resolved
	}
	return t.snapshotLocked(), nil
}

// Refresh rereads the post counter and the viewer's like and replaces the
// confirmed state with them. Nothing changes while flips are pending.
func (t *Toggle) Refresh(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	busy := t.pending > 0
	seq := t.seq
	t.mu.Unlock()
	if busy {
		return t.Snapshot(), nil
	}

	post, err := t.cfg.Posts.GetByID(ctx, t.postID)
	if err != nil {
		return t.Snapshot(), err
	}
	resolved, err := t.resolve(ctx)
	if err != nil {
		return t.Snapshot(), err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// 读取期间有新的点击，以本地状态为准
	if t.pending == 0 && t.seq == seq {
		count := max(0, post.LikesCount)
		t.state, t.count = resolved, count
		t.stableState, t.stableCount = resolved, count
	}
	return t.snapshotLocked(), nil
}

func (t *Toggle) resolve(ctx context.Context) (State, error) {
	if t.viewer == nil {
		return Unliked, nil
	}
	liked, err := t.cfg.Likes.Exists(ctx, t.postID, t.viewer.Email)
	if err != nil {
		return Unknown, err
	}
	if liked {
		return Liked, nil
	}
	return Unliked, nil
}

func (t *Toggle) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Toggle) snapshotLocked() Snapshot {
	return Snapshot{
		PostID:  t.postID,
		State:   t.state,
		Count:   t.count,
		Pending: t.pending,
	}
}

// Toggle flips the like and returns the new local view right away
func (t *Toggle) Toggle(ctx context.Context) (Snapshot, error) {
	if t.viewer == nil {
		t.notify("Please sign in to like posts.")
		return t.Snapshot(), domain.ErrUnauthenticated
	}

	t.mu.Lock()
	op := pendingOp{from: t.state, fromCount: t.count}
	if t.state == Liked {
		op.to, op.toCount = Unliked, max(0, t.count-1)
	} else {
		op.to, op.toCount = Liked, max(0, t.count+1)
	}
	t.seq++
	op.seq = t.seq
	t.state, t.count = op.to, op.toCount
	t.pending++

	prev := t.tail
	done := make(chan struct{})
	t.tail = done
	snap := t.snapshotLocked()
	t.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		<-prev
		t.settle(op, t.persist(detached, op))
	}()

	return snap, nil
}

// Wait blocks until every queued flip has been persisted or rolled back
func (t *Toggle) Wait(ctx context.Context) error {
	t.mu.Lock()
	tail := t.tail
	t.mu.Unlock()

	select {
	case <-tail:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Toggle) persist(ctx context.Context, op pendingOp) error {
	if t.cfg.PersistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.PersistTimeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if op.to == Liked {
			return t.cfg.Likes.Store(gctx, domain.Like{
				PostID:    t.postID,
				Voter:     t.viewer.Email,
				CreatedAt: time.Now(),
			})
		}
		return t.cfg.Likes.Delete(gctx, t.postID, t.viewer.Email)
	})
	g.Go(func() error {
		return t.cfg.Posts.UpdateLikesCount(gctx, t.postID, op.toCount)
	})
	return g.Wait()
}

func (t *Toggle) settle(op pendingOp, err error) {
	t.mu.Lock()
	t.pending--
	if err == nil {
		t.stableState, t.stableCount = op.to, op.toCount
		t.mu.Unlock()
		return
	}
	// a newer flip owns the visible state, only the latest op may roll back
	if op.seq == t.seq {
		t.state, t.count = t.stableState, t.stableCount
	}
	t.mu.Unlock()

	logrus.Errorf("failed to persist %s of post %d: %v", op.to, t.postID, err)
	t.notify("Could not save your like, please try again.")
	if t.cfg.Reconciler != nil {
		t.cfg.Reconciler.Send(t.postID)
	}
}

func (t *Toggle) notify(msg string) {
	if t.cfg.Notifier != nil {
		t.cfg.Notifier.Notify(domain.NewNotice(msg))
	}
}
