package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/pkg/enums"
)

// Donor is one entry on the donor recognition roster. The Asset holds the
// donor's logo.
type Donor struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Tier      enums.DonorTier `gorm:"column:tier;type:donor_tier;not null" json:"tier"`
	Website   *string         `gorm:"column:website" json:"website,omitempty"`

	// Either or both may be set: some donors give money, some give goods.
	DonatedAmount    *decimal.Decimal `gorm:"column:donated_amount;type:numeric(12,2)" json:"donatedAmount,omitempty"`
	DonatedCommodity *string          `gorm:"column:donated_commodity" json:"donatedCommodity,omitempty"`

	Asset
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (d Donor) PrimaryKey() uuid.UUID {
	return d.ID
}

func (d *Donor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
