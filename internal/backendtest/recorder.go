package backendtest

import (
	"context"
	"sync"

	"github.com/senuthbros6699-eng/dialect/domain"
)

// Notices records what would be shown to the viewer
type Notices struct {
	mu      sync.Mutex
	notices []domain.Notice
}

var _ domain.Notifier = (*Notices)(nil)

func (n *Notices) Notify(notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *Notices) All() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notice(nil), n.notices...)
}

// Reconciler records the posts queued for recounting
type Reconciler struct {
	mu    sync.Mutex
	posts []int64
}

var _ domain.LikeReconciler = (*Reconciler)(nil)

func (r *Reconciler) Start(ctx context.Context) {
	<-ctx.Done()
}

func (r *Reconciler) Send(postID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, postID)
}

func (r *Reconciler) Posts() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.posts...)
}
