package domain

import "context"

type Worker interface {
	Start(ctx context.Context)
}

// LikeReconciler recounts likes_count of posts whose optimistic update failed
type LikeReconciler interface {
	Worker

	// Send queues a post for recounting. It never blocks.
	Send(postID int64)
}
