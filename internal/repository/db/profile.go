package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/repository/db/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct {
	DB *gorm.DB
}

var _ domain.ProfileRepository = (*profileRepository)(nil)

func NewProfileRepository(db *gorm.DB) *profileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (p *profileRepository) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	var profile model.Profile
	err := p.DB.WithContext(ctx).Where("username = ?", username).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Profile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile %s: %w", username, err)
	}
	return profile.ToDomain(), nil
}

func (p *profileRepository) GetByUsernames(ctx context.Context, usernames []string) ([]domain.Profile, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var profiles []model.Profile
	if err := p.DB.WithContext(ctx).Where("username IN ?", usernames).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}

	res := make([]domain.Profile, 0, len(profiles))
	for i := range profiles {
		res = append(res, profiles[i].ToDomain())
	}
	return res, nil
}

// Upsert only overwrites the image columns that are set on p
func (p *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	var columns []string
	if profile.AvatarURL != "" {
		columns = append(columns, "avatar_url")
	}
	if profile.BannerURL != "" {
		columns = append(columns, "banner_url")
	}
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: len(columns) == 0,
	}
	if len(columns) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(columns)
	}

	err := p.DB.WithContext(ctx).
		Clauses(onConflict).
		Create(model.NewProfileFromDomain(profile)).Error
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.Username, err)
	}
	return nil
}
