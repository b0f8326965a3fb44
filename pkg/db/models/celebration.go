package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Celebration is a festival or campaign grouping a set of products. Events
// sort ahead of plain campaigns on the public listing.
type Celebration struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	IsEvent     bool      `gorm:"column:is_event;not null;default:false" json:"isEvent"`
	Asset
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	Products    []Product `gorm:"foreignKey:CelebrationID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (c Celebration) PrimaryKey() uuid.UUID {
	return c.ID
}

func (c *Celebration) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
