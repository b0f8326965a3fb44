package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/pkg/enums"
)

// Order is a customer purchase. Total is always computed server-side from
// the item snapshots, never taken from the request.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerName  string            `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail string            `gorm:"column:customer_email;not null" json:"customerEmail"`
	CustomerPhone string            `gorm:"column:customer_phone;not null" json:"customerPhone"`
	Address       *string           `gorm:"column:address" json:"address,omitempty"`
	Status        enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'" json:"status"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = enums.OrderStatusPending
	}
	return nil
}

// OrderItem snapshots a product at purchase time so later catalog edits do
// not rewrite order history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"orderId"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unitPrice"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
