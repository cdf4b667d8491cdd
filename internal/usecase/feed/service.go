package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/profile"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCommunity = "future-tech"
	DefaultPageSize  = 20
)

// Page is one screen of posts with their authors resolved
type Page struct {
	Posts      []domain.Post
	Authors    profile.Directory
	NextCursor string
}

type CommunityPage struct {
	Community domain.Community
	Page
}

type Service struct {
	communities domain.CommunityRepository
	posts       domain.PostRepository
	resolver    *profile.Resolver
}

func NewService(communities domain.CommunityRepository, posts domain.PostRepository, resolver *profile.Resolver) *Service {
	return &Service{
		communities: communities,
		posts:       posts,
		resolver:    resolver,
	}
}

// Communities lists every community by name
func (s *Service) Communities(ctx context.Context) ([]domain.Community, error) {
	return s.communities.Fetch(ctx)
}

// Feed lists posts newest first. An empty slug is the home feed of all communities.
func (s *Service) Feed(ctx context.Context, slug, cursor string, num int64) (Page, error) {
	num = repository.PageVerify(num)
	if num == 0 {
		num = DefaultPageSize
	}

	posts, err := s.posts.Fetch(ctx, domain.PostFilter{CommunitySlug: slug}, cursor, num)
	if err != nil {
		return Page{}, err
	}

	authors, err := s.resolver.Resolve(ctx, posts)
	if err != nil {
		logrus.Warnf("failed to resolve authors, using generated avatars: %v", err)
	}

	page := Page{Posts: posts, Authors: authors}
	if int64(len(posts)) == num {
		page.NextCursor = repository.EncodeCursor(posts[len(posts)-1].CreatedAt)
	}
	return page, nil
}

// CommunityFeed loads a community and its first feed page concurrently.
// Returns domain.ErrNotFound for an unknown slug.
func (s *Service) CommunityFeed(ctx context.Context, slug, cursor string, num int64) (CommunityPage, error) {
	var res CommunityPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.communities.GetBySlug(gctx, slug)
		if err != nil {
			return err
		}
		res.Community = c
		return nil
	})
	g.Go(func() error {
		page, err := s.Feed(gctx, slug, cursor, num)
		if err != nil {
			return err
		}
		res.Page = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return CommunityPage{}, err
	}
	return res, nil
}

// CreatePost publishes content as the viewer into slug (DefaultCommunity when empty)
func (s *Service) CreatePost(ctx context.Context, viewer *domain.Viewer, slug, content string) (domain.Post, error) {
	if viewer == nil {
		return domain.Post{}, domain.ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Post{}, domain.ErrEmptyContent
	}
	if slug == "" {
		slug = DefaultCommunity
	}
	if _, err := s.communities.GetBySlug(ctx, slug); err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		Author:        viewer.Handle(),
		Content:       content,
		CommunitySlug: slug,
	}
	if err := s.posts.Store(ctx, &post); err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}
