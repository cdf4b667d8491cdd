package profile

import (
	"context"
	"net/url"

	"github.com/senuthbros6699-eng/dialect/domain"
)

const DefaultAvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// Resolver batches profile lookups for everything shown on one screen
type Resolver struct {
	profiles   domain.ProfileRepository
	avatarBase string
}

func NewResolver(profiles domain.ProfileRepository, avatarBaseURL string) *Resolver {
	if avatarBaseURL == "" {
		avatarBaseURL = DefaultAvatarBaseURL
	}
	return &Resolver{
		profiles:   profiles,
		avatarBase: avatarBaseURL,
	}
}

// SyntheticAvatar is the generated avatar of a handle, the same for every call
func (r *Resolver) SyntheticAvatar(handle string) string {
	return r.avatarBase + "?seed=" + url.QueryEscape(handle)
}

// Resolve looks up the authors of posts with a single request
func (r *Resolver) Resolve(ctx context.Context, posts []domain.Post) (Directory, error) {
	handles := make([]string, len(posts))
	for i := range posts {
		handles[i] = posts[i].Author
	}
	return r.ResolveHandles(ctx, handles)
}

// ResolveHandles keeps the first occurrence of every handle and issues one
// lookup for all of them. The Directory is usable even when err != nil.
func (r *Resolver) ResolveHandles(ctx context.Context, handles []string) (Directory, error) {
	dir := Directory{
		profiles:  make(map[string]domain.Profile),
		synthetic: r.SyntheticAvatar,
	}

	// 收集所有不重复的handle
	distinct := make([]string, 0, len(handles))
	existMap := make(map[string]bool, len(handles))
	for _, h := range handles {
		if h == "" || existMap[h] {
			continue
		}
		existMap[h] = true
		distinct = append(distinct, h)
	}
	if len(distinct) == 0 {
		return dir, nil
	}

	profiles, err := r.profiles.GetByUsernames(ctx, distinct)
	if err != nil {
		return dir, err
	}
	for _, p := range profiles {
		dir.profiles[p.Username] = p
	}
	return dir, nil
}

// Directory maps handles to profiles, falling back to synthetic avatars
type Directory struct {
	profiles  map[string]domain.Profile
	synthetic func(string) string
}

func (d Directory) Profile(handle string) (domain.Profile, bool) {
	p, ok := d.profiles[handle]
	return p, ok
}

func (d Directory) AvatarURL(handle string) string {
	if p, ok := d.profiles[handle]; ok && p.AvatarURL != "" {
		return p.AvatarURL
	}
	if d.synthetic == nil {
		return DefaultAvatarBaseURL + "?seed=" + url.QueryEscape(handle)
	}
	return d.synthetic(handle)
}

// Len is the number of handles that have a profile record
func (d Directory) Len() int {
	return len(d.profiles)
}
