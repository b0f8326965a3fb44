package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultMemberRole is assigned when a member is created without one.
const DefaultMemberRole = "Core"

// Member is one entry on the team roster. The Asset holds the member's
// portrait photo.
type Member struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Role      string    `gorm:"column:role;not null;default:'Core'" json:"role"`
	Bio       *string   `gorm:"column:bio" json:"bio,omitempty"`
	InstaID   *string   `gorm:"column:insta_id" json:"instaId,omitempty"`
	Email     *string   `gorm:"column:email" json:"email,omitempty"`
	Contact   *string   `gorm:"column:contact" json:"contact,omitempty"`
	Asset
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (m Member) PrimaryKey() uuid.UUID {
	return m.ID
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Role == "" {
		m.Role = DefaultMemberRole
	}
	return nil
}
