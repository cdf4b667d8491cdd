package response

import (
	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/comment"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/like"
)

type Comment struct {
	ID        int64  `json:"id,omitempty"`
	PendingID string `json:"pending_id,omitempty"`
	PostID    int64  `json:"post_id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	Pending   bool   `json:"pending"`
}

func NewCommentFromDomain(c *domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		PendingID: c.PendingID,
		PostID:    c.PostID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(DateTimeFormat),
		Pending:   c.Pending(),
	}
}

type Thread struct {
	PostID   int64     `json:"post_id"`
	State    string    `json:"state"`
	Comments []Comment `json:"comments"`
	// Empty is true once expanded with nothing to show
	Empty bool `json:"empty"`
}

func NewThread(v comment.View) Thread {
	comments := make([]Comment, len(v.Comments))
	for i := range v.Comments {
		comments[i] = NewCommentFromDomain(&v.Comments[i])
	}
	return Thread{
		PostID:   v.PostID,
		State:    v.State.String(),
		Comments: comments,
		Empty:    v.Empty,
	}
}

type Like struct {
	PostID  int64  `json:"post_id"`
	State   string `json:"state"`
	Liked   bool   `json:"liked"`
	Count   int64  `json:"count"`
	Pending int    `json:"pending"`
}

func NewLike(s like.Snapshot) Like {
	return Like{
		PostID:  s.PostID,
		State:   s.State.String(),
		Liked:   s.Liked(),
		Count:   s.Count,
		Pending: s.Pending,
	}
}
