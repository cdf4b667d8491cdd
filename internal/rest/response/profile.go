package response

import "github.com/senuthbros6699-eng/dialect/internal/usecase/profile"

type Profile struct {
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	BannerURL  string `json:"banner_url,omitempty"`
	HasProfile bool   `json:"has_profile"`
	IsOwner    bool   `json:"is_owner"`
	PostCount  int    `json:"post_count"`
	Karma      int64  `json:"karma"`
	Posts      []Post `json:"posts"`
}

func NewProfile(p profile.Page) Profile {
	posts := make([]Post, len(p.Posts))
	for i := range p.Posts {
		posts[i] = NewPostFromDomain(&p.Posts[i], p.AvatarURL)
	}
	return Profile{
		Username:   p.Username,
		AvatarURL:  p.AvatarURL,
		BannerURL:  p.BannerURL,
		HasProfile: p.HasProfile,
		IsOwner:    p.IsOwner,
		PostCount:  p.PostCount(),
		Karma:      p.Karma,
		Posts:      posts,
	}
}
