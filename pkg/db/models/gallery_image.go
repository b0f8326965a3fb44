package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryImage is one photo on the public gallery page.
type GalleryImage struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title      *string   `gorm:"column:title" json:"title,omitempty"`
	Asset
	IsFeatured bool      `gorm:"column:is_featured;not null;default:false" json:"isFeatured"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (g GalleryImage) PrimaryKey() uuid.UUID {
	return g.ID
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
