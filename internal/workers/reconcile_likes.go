package workers

import (
	"context"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/sirupsen/logrus"
)

const (
	reconcileBuffer    = 1024
	reconcileBatchSize = 100
	reconcileInterval  = 1 * time.Second
)

// reconcileLikesWorker recounts likes_count of posts whose optimistic like
// update failed, so the stored counter matches the likes table again
type reconcileLikesWorker struct {
	Posts    domain.PostRepository
	ch       chan int64
	interval time.Duration
}

var _ domain.LikeReconciler = (*reconcileLikesWorker)(nil)

func NewReconcileLikesWorker(posts domain.PostRepository) *reconcileLikesWorker {
	return &reconcileLikesWorker{
		Posts:    posts,
		ch:       make(chan int64, reconcileBuffer),
		interval: reconcileInterval,
	}
}

func (w *reconcileLikesWorker) Send(postID int64) {
	select {
	case w.ch <- postID:
	default:
		logrus.Warnf("ReconcileLikesWorker's channel is full, post %d dropped", postID)
	}
}

func (w *reconcileLikesWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]int64, 0, reconcileBatchSize)
	for {
		select {
		case id := <-w.ch:
			batch = append(batch, id)
			if len(batch) == reconcileBatchSize {
				w.flush(ctx, batch)
				batch = make([]int64, 0, reconcileBatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make([]int64, 0, reconcileBatchSize)
			}
		case <-ctx.Done():
			logrus.Info("shutting down ReconcileLikesWorker, flushing remaining posts...")
			// 把通道里剩余的也一起处理
		drain:
			for {
				select {
				case id := <-w.ch:
					batch = append(batch, id)
				default:
					break drain
				}
			}
			w.flush(context.WithoutCancel(ctx), batch)
			return
		}
	}
}

func (w *reconcileLikesWorker) flush(ctx context.Context, batch []int64) {
	if len(batch) == 0 {
		return
	}
	seen := make(map[int64]struct{}, len(batch))
	ids := make([]int64, 0, len(batch))
	for _, id := range batch {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if err := w.Posts.RecountLikes(ctx, ids); err != nil {
		logrus.Errorf("failed to recount likes of %d posts: %v", len(ids), err)
	}
}
