package response

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/feed"
)

const DateTimeFormat = time.RFC3339

type Community struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewCommunityFromDomain(c *domain.Community) Community {
	return Community{
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
	}
}

type Post struct {
	ID            int64  `json:"id"`
	Author        string `json:"author"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Content       string `json:"content"`
	CommunitySlug string `json:"community_slug"`
	Likes         int64  `json:"likes"`
	CreatedAt     string `json:"created_at"`
}

// NewPostFromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post, avatarURL string) Post {
	return Post{
		ID:            p.ID,
		Author:        p.Author,
		AvatarURL:     avatarURL,
		Content:       p.Content,
		CommunitySlug: p.CommunitySlug,
		Likes:         max(0, p.LikesCount),
		CreatedAt:     p.CreatedAt.Format(DateTimeFormat),
	}
}

type Feed struct {
	Community  *Community `json:"community,omitempty"`
	Posts      []Post     `json:"posts"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func NewFeed(page feed.Page) Feed {
	posts := make([]Post, len(page.Posts))
	for i := range page.Posts {
		posts[i] = NewPostFromDomain(&page.Posts[i], page.Authors.AvatarURL(page.Posts[i].Author))
	}
	return Feed{Posts: posts, NextCursor: page.NextCursor}
}

func NewCommunityFeed(page feed.CommunityPage) Feed {
	res := NewFeed(page.Page)
	c := NewCommunityFromDomain(&page.Community)
	res.Community = &c
	return res
}

type Message struct {
	ID            int64  `json:"id"`
	CommunitySlug string `json:"community_slug"`
	Author        string `json:"author"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
}

func NewMessageFromDomain(m *domain.Message) Message {
	return Message{
		ID:            m.ID,
		CommunitySlug: m.CommunitySlug,
		Author:        m.Author,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt.Format(DateTimeFormat),
	}
}

func NewMessagesFromDomain(msgs []domain.Message) []Message {
	res := make([]Message, len(msgs))
	for i := range msgs {
		res[i] = NewMessageFromDomain(&msgs[i])
	}
	return res
}

type MarketItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	SellerEmail string  `json:"seller_email"`
	CreatedAt   string  `json:"created_at"`
}

func NewMarketItemFromDomain(it *domain.MarketItem) MarketItem {
	return MarketItem{
		ID:          it.ID,
		Title:       it.Title,
		Price:       it.Price,
		ImageURL:    it.ImageURL,
		SellerEmail: it.SellerEmail,
		CreatedAt:   it.CreatedAt.Format(DateTimeFormat),
	}
}

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Handle string `json:"handle"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
	User         User   `json:"user"`
}

func NewSessionFromDomain(s *domain.Session) Session {
	return Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt.Format(DateTimeFormat),
		User: User{
			ID:     s.Viewer.ID,
			Email:  s.Viewer.Email,
			Handle: s.Viewer.Handle(),
		},
	}
}
