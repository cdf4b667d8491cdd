// Package backendtest provides an in-memory hosted backend for tests.
// Every operation can be made to fail or block by name.
package backendtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository"
)

const (
	OpPostFetch       = "posts.fetch"
	OpPostGet         = "posts.get"
	OpPostStore       = "posts.store"
	OpPostLikesCount  = "posts.update_likes_count"
	OpPostRecount     = "posts.recount_likes"
	OpLikeExists      = "likes.exists"
	OpLikeStore       = "likes.store"
	OpLikeDelete      = "likes.delete"
	OpCommentFetch    = "comments.fetch"
	OpCommentStore    = "comments.store"
	OpMessageFetch    = "messages.fetch"
	OpMessageStore    = "messages.store"
	OpProfileGet      = "profiles.get"
	OpProfileBatch    = "profiles.batch"
	OpProfileUpsert   = "profiles.upsert"
	OpCommunityFetch  = "communities.fetch"
	OpCommunityGet    = "communities.get"
	OpMarketFetch     = "market.fetch"
	OpMarketStore     = "market.store"
	OpUpload          = "storage.upload"
	OpRealtimeConnect = "realtime.subscribe"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type likeKey struct {
	post  int64
	voter string
}

// Backend holds every collection of the fake backend
type Backend struct {
	mu          sync.Mutex
	nextID      int64
	posts       map[int64]domain.Post
	likes       map[likeKey]domain.Like
	comments    []domain.Comment
	messages    []domain.Message
	profiles    map[string]domain.Profile
	communities []domain.Community
	items       []domain.MarketItem
	blobs       map[string][]byte
	calls       map[string]int
	failures    map[string]error
	gates       map[string]chan struct{}

	Broker *Broker
}

func New() *Backend {
	return &Backend{
		posts:    make(map[int64]domain.Post),
		likes:    make(map[likeKey]domain.Like),
		profiles: make(map[string]domain.Profile),
		blobs:    make(map[string][]byte),
		calls:    make(map[string]int),
		failures: make(map[string]error),
		gates:    make(map[string]chan struct{}),
		Broker:   NewBroker(),
	}
}

// Fail makes every following call of op return err until Recover(op)
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[op] = err
}

func (b *Backend) Recover(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, op)
}

// Block holds calls of op until the returned release func is called
func (b *Backend) Block(op string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[op] = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.gates[op] == gate {
				delete(b.gates, op)
			}
			b.mu.Unlock()
			close(gate)
		})
	}
}

// Calls reports how often op was invoked
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *Backend) enter(ctx context.Context, op string) error {
	b.mu.Lock()
	b.calls[op]++
	gate := b.gates[op]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures[op]
}

// next hands out ids and strictly increasing timestamps. Caller holds mu.
func (b *Backend) next() (int64, time.Time) {
	b.nextID++
	return b.nextID, epoch.Add(time.Duration(b.nextID) * time.Second)
}

// SeedPost stores p as is, assigning ID and CreatedAt when unset
func (b *Backend) SeedPost(p domain.Post) domain.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ts := b.next()
	if p.ID == 0 {
		p.ID = id
	} else if p.ID > b.nextID {
		b.nextID = p.ID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = ts
	}
	b.posts[p.ID] = p
	return p
}

func (b *Backend) SeedLike(postID int64, voter string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.likes[likeKey{postID, voter}] = domain.Like{PostID: postID, Voter: voter, CreatedAt: epoch}
}

func (b *Backend) SeedComment(c domain.Comment) domain.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ts := b.next()
	c.ID = id
	if c.CreatedAt.IsZero() {
		c.CreatedAt = ts
	}
	b.comments = append(b.comments, c)
	return c
}

func (b *Backend) SeedMessage(m domain.Message) domain.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ts := b.next()
	m.ID = id
	if m.CreatedAt.IsZero() {
		m.CreatedAt = ts
	}
	b.messages = append(b.messages, m)
	return m
}

func (b *Backend) SeedProfile(p domain.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[p.Username] = p
}

func (b *Backend) SeedCommunity(c domain.Community) domain.Community {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ts := b.next()
	c.ID = id
	c.CreatedAt = ts
	b.communities = append(b.communities, c)
	return c
}

// Post returns the stored post, or false
func (b *Backend) Post(id int64) (domain.Post, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[id]
	return p, ok
}

func (b *Backend) Liked(postID int64, voter string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.likes[likeKey{postID, voter}]
	return ok
}

func (b *Backend) Comments(postID int64) []domain.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	var res []domain.Comment
	for _, c := range b.comments {
		if c.PostID == postID {
			res = append(res, c)
		}
	}
	return res
}

func (b *Backend) Messages() []domain.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Message(nil), b.messages...)
}

func (b *Backend) Profile(username string) (domain.Profile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[username]
	return p, ok
}

func (b *Backend) Items() []domain.MarketItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.MarketItem(nil), b.items...)
}

func (b *Backend) Blob(bucket, name string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[bucket+"/"+name]
	return data, ok
}

func (b *Backend) PostRepository() domain.PostRepository           { return postRepo{b} }
func (b *Backend) LikeRepository() domain.LikeRepository           { return likeRepo{b} }
func (b *Backend) CommentRepository() domain.CommentRepository     { return commentRepo{b} }
func (b *Backend) MessageRepository() domain.MessageRepository     { return messageRepo{b} }
func (b *Backend) ProfileRepository() domain.ProfileRepository     { return profileRepo{b} }
func (b *Backend) CommunityRepository() domain.CommunityRepository { return communityRepo{b} }
func (b *Backend) MarketRepository() domain.MarketRepository       { return marketRepo{b} }
func (b *Backend) BlobStore() domain.BlobStore                     { return blobStore{b} }

type postRepo struct{ b *Backend }

func (r postRepo) Fetch(ctx context.Context, filter domain.PostFilter, cursor string, num int64) ([]domain.Post, error) {
	if err := r.b.enter(ctx, OpPostFetch); err != nil {
		return nil, err
	}
	var before time.Time
	if cursor != "" {
		t, err := repository.DecodeCursor(cursor)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		before = t
	}

	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	res := make([]domain.Post, 0, len(r.b.posts))
	for _, p := range r.b.posts {
		if filter.CommunitySlug != "" && p.CommunitySlug != filter.CommunitySlug {
			continue
		}
		if filter.Author != "" && p.Author != filter.Author {
			continue
		}
		if !before.IsZero() && !p.CreatedAt.Before(before) {
			continue
		}
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if num > 0 && int64(len(res)) > num {
		res = res[:num]
	}
	return res, nil
}

func (r postRepo) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	if err := r.b.enter(ctx, OpPostGet); err != nil {
		return domain.Post{}, err
	}
	p, ok := r.b.Post(id)
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

func (r postRepo) Store(ctx context.Context, p *domain.Post) error {
	if err := r.b.enter(ctx, OpPostStore); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	p.ID, p.CreatedAt = r.b.next()
	r.b.posts[p.ID] = *p
	return nil
}

func (r postRepo) UpdateLikesCount(ctx context.Context, id int64, count int64) error {
	if err := r.b.enter(ctx, OpPostLikesCount); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	p, ok := r.b.posts[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.LikesCount = count
	r.b.posts[id] = p
	return nil
}

func (r postRepo) RecountLikes(ctx context.Context, ids []int64) error {
	if err := r.b.enter(ctx, OpPostRecount); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	for _, id := range ids {
		p, ok := r.b.posts[id]
		if !ok {
			continue
		}
		var n int64
		for k := range r.b.likes {
			if k.post == id {
				n++
			}
		}
		p.LikesCount = n
		r.b.posts[id] = p
	}
	return nil
}

type likeRepo struct{ b *Backend }

func (r likeRepo) Exists(ctx context.Context, postID int64, voter string) (bool, error) {
	if err := r.b.enter(ctx, OpLikeExists); err != nil {
		return false, err
	}
	return r.b.Liked(postID, voter), nil
}

func (r likeRepo) Store(ctx context.Context, l domain.Like) error {
	if err := r.b.enter(ctx, OpLikeStore); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.likes[likeKey{l.PostID, l.Voter}] = l
	return nil
}

func (r likeRepo) Delete(ctx context.Context, postID int64, voter string) error {
	if err := r.b.enter(ctx, OpLikeDelete); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	delete(r.b.likes, likeKey{postID, voter})
	return nil
}

type commentRepo struct{ b *Backend }

func (r commentRepo) FetchByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if err := r.b.enter(ctx, OpCommentFetch); err != nil {
		return nil, err
	}
	res := r.b.Comments(postID)
	if res == nil {
		res = []domain.Comment{}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (r commentRepo) Store(ctx context.Context, c *domain.Comment) error {
	if err := r.b.enter(ctx, OpCommentStore); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	c.ID, c.CreatedAt = r.b.next()
	c.PendingID = ""
	r.b.comments = append(r.b.comments, *c)
	return nil
}

type messageRepo struct{ b *Backend }

func (r messageRepo) FetchByCommunity(ctx context.Context, slug string) ([]domain.Message, error) {
	if err := r.b.enter(ctx, OpMessageFetch); err != nil {
		return nil, err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	res := []domain.Message{}
	for _, m := range r.b.messages {
		if m.CommunitySlug == slug {
			res = append(res, m)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (r messageRepo) Store(ctx context.Context, m *domain.Message) error {
	if err := r.b.enter(ctx, OpMessageStore); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	m.ID, m.CreatedAt = r.b.next()
	r.b.messages = append(r.b.messages, *m)
	return nil
}

type profileRepo struct{ b *Backend }

func (r profileRepo) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	if err := r.b.enter(ctx, OpProfileGet); err != nil {
		return domain.Profile{}, err
	}
	p, ok := r.b.Profile(username)
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (r profileRepo) GetByUsernames(ctx context.Context, usernames []string) ([]domain.Profile, error) {
	if err := r.b.enter(ctx, OpProfileBatch); err != nil {
		return nil, err
	}
	var res []domain.Profile
	for _, u := range usernames {
		if p, ok := r.b.Profile(u); ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r profileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	if err := r.b.enter(ctx, OpProfileUpsert); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	cur := r.b.profiles[p.Username]
	cur.Username = p.Username
	if p.AvatarURL != "" {
		cur.AvatarURL = p.AvatarURL
	}
	if p.BannerURL != "" {
		cur.BannerURL = p.BannerURL
	}
	r.b.profiles[p.Username] = cur
	return nil
}

type communityRepo struct{ b *Backend }

func (r communityRepo) Fetch(ctx context.Context) ([]domain.Community, error) {
	if err := r.b.enter(ctx, OpCommunityFetch); err != nil {
		return nil, err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	res := append([]domain.Community(nil), r.b.communities...)
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (r communityRepo) GetBySlug(ctx context.Context, slug string) (domain.Community, error) {
	if err := r.b.enter(ctx, OpCommunityGet); err != nil {
		return domain.Community{}, err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	for _, c := range r.b.communities {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Community{}, domain.ErrNotFound
}

type marketRepo struct{ b *Backend }

func (r marketRepo) Fetch(ctx context.Context) ([]domain.MarketItem, error) {
	if err := r.b.enter(ctx, OpMarketFetch); err != nil {
		return nil, err
	}
	res := r.b.Items()
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (r marketRepo) Store(ctx context.Context, item *domain.MarketItem) error {
	if err := r.b.enter(ctx, OpMarketStore); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	item.ID, item.CreatedAt = r.b.next()
	r.b.items = append(r.b.items, *item)
	return nil
}
