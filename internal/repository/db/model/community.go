package model

import (
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

type Community struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (Community) TableName() string {
	return "communities"
}

func (m *Community) ToDomain() domain.Community {
	return domain.Community{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
