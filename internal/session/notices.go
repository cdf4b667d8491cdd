package session

import (
	"sync"

	"github.com/senuthbros6699-eng/dialect/domain"
)

const DefaultNoticeLimit = 50

// Notices queues what the viewer should be told, oldest dropped first when full
type Notices struct {
	mu    sync.Mutex
	limit int
	queue []domain.Notice
}

var _ domain.Notifier = (*Notices)(nil)

func NewNotices(limit int) *Notices {
	if limit <= 0 {
		limit = DefaultNoticeLimit
	}
	return &Notices{limit: limit}
}

func (n *Notices) Notify(notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.queue = append(n.queue, notice)
	if over := len(n.queue) - n.limit; over > 0 {
		n.queue = append(n.queue[:0:0], n.queue[over:]...)
	}
}

// Drain returns the queued notices and empties the queue
func (n *Notices) Drain() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	res := n.queue
	n.queue = nil
	if res == nil {
		return []domain.Notice{}
	}
	return res
}

func (n *Notices) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}
