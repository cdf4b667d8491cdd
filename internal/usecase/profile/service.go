package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"golang.org/x/sync/errgroup"
)

type ImageKind string

const (
	Avatar ImageKind = "avatar"
	Banner ImageKind = "banner"
)

func ParseImageKind(s string) (ImageKind, error) {
	switch ImageKind(strings.ToLower(s)) {
	case Avatar:
		return Avatar, nil
	case Banner:
		return Banner, nil
	default:
		return "", domain.ErrBadParamInput
	}
}

// Page is everything the profile screen shows
type Page struct {
	Username   string
	AvatarURL  string
	BannerURL  string
	HasProfile bool
	Posts      []domain.Post
	Karma      int64
	IsOwner    bool
}

func (p Page) PostCount() int {
	return len(p.Posts)
}

// Upload is an image sent by the viewer
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Service struct {
	profiles domain.ProfileRepository
	posts    domain.PostRepository
	blobs    domain.BlobStore
	resolver *Resolver
	now      func() time.Time
}

func NewService(profiles domain.ProfileRepository, posts domain.PostRepository, blobs domain.BlobStore, resolver *Resolver) *Service {
	return &Service{
		profiles: profiles,
		posts:    posts,
		blobs:    blobs,
		resolver: resolver,
		now:      time.Now,
	}
}

// Page loads the profile and the posts of username concurrently.
// A handle without a profile record gets the synthetic avatar.
func (s *Service) Page(ctx context.Context, username string, viewer *domain.Viewer) (Page, error) {
	page := Page{
		Username: username,
		IsOwner:  viewer != nil && viewer.Handle() == username,
	}

	var profile domain.Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetByUsername(gctx, username)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		profile = p
		page.HasProfile = true
		return nil
	})
	g.Go(func() error {
		posts, err := s.posts.Fetch(gctx, domain.PostFilter{Author: username}, "", 0)
		if err != nil {
			return err
		}
		page.Posts = posts
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	page.AvatarURL = profile.AvatarURL
	if page.AvatarURL == "" {
		page.AvatarURL = s.resolver.SyntheticAvatar(username)
	}
	page.BannerURL = profile.BannerURL
	for _, p := range page.Posts {
		page.Karma += max(0, p.LikesCount)
	}
	return page, nil
}

// UploadImage replaces the avatar or banner of the viewer's own profile
func (s *Service) UploadImage(ctx context.Context, viewer *domain.Viewer, username string, kind ImageKind, img Upload) (domain.Profile, error) {
	if viewer == nil {
		return domain.Profile{}, domain.ErrUnauthenticated
	}
	if viewer.Handle() != username {
		return domain.Profile{}, domain.ErrForbidden
	}
	if kind != Avatar && kind != Banner {
		return domain.Profile{}, domain.ErrBadParamInput
	}
	if img.Body == nil {
		return domain.Profile{}, domain.ErrBadParamInput
	}

	name := fmt.Sprintf("%s-%s-%d", username, kind, s.now().UnixMilli())
	publicURL, err := s.blobs.Upload(ctx, domain.BucketProfiles, name, img.ContentType, img.Body)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("upload %s: %w", kind, err)
	}

	update := domain.Profile{Username: username}
	if kind == Avatar {
		update.AvatarURL = publicURL
	} else {
		update.BannerURL = publicURL
	}
	if err := s.profiles.Upsert(ctx, &update); err != nil {
		return domain.Profile{}, err
	}

	return s.profiles.GetByUsername(ctx, username)
}
