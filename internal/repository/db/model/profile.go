package model

import "github.com/senuthbros6699-eng/dialect/domain"

type Profile struct {
	Username  string `gorm:"column:username;primaryKey"`
	AvatarURL string `gorm:"column:avatar_url"`
	BannerURL string `gorm:"column:banner_url"`
}

func (Profile) TableName() string {
	return "profiles"
}

func NewProfileFromDomain(p *domain.Profile) *Profile {
	return &Profile{
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		BannerURL: p.BannerURL,
	}
}

func (m *Profile) ToDomain() domain.Profile {
	return domain.Profile{
		Username:  m.Username,
		AvatarURL: m.AvatarURL,
		BannerURL: m.BannerURL,
	}
}
