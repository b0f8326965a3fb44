package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/pkg/db"
	"github.com/karunasetu/karuna-backend/pkg/db/models"
	"github.com/karunasetu/karuna-backend/pkg/enums"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

// PaymentURLFor builds the client-facing payment path for an order.
func PaymentURLFor(orderID uuid.UUID) string {
	return fmt.Sprintf("/payment/%s", orderID)
}

// Service handles checkout and the order lifecycle. Totals are derived from
// product rows at purchase time; the request never supplies a price.
type Service struct {
	conn *gorm.DB
	logg *logger.Logger
}

func NewService(conn *gorm.DB, logg *logger.Logger) *Service {
	return &Service{conn: conn, logg: logg}
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.conn.WithContext(ctx)
}

// Create validates the checkout payload, snapshots each referenced product,
// and persists the order with its items in one transaction.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}

	order := models.Order{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Address:       input.Address,
		Status:        enums.OrderStatusPending,
	}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))

		for _, item := range input.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("unknown product %s", item.ProductID))
				}
				return err
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  item.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order.Total = total
		order.Items = items
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"total":    order.Total.String(),
		"items":    len(order.Items),
	}), "order.created")
	return &order, nil
}

// Get loads one order with its items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// List returns every order, newest first, for the admin dashboard.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := s.db(ctx).Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// Confirm moves a pending order to confirmed. Confirming an already
// confirmed order is a no-op; later lifecycle states are never rolled back.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return order, nil
	}

	order.Status = enums.OrderStatusConfirmed
	if err := s.db(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", enums.OrderStatusConfirmed).Error; err != nil {
		return nil, translate(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order.confirmed")
	return order, nil
}

func translate(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	switch {
	case db.IsNotFound(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	case db.IsUnavailable(err):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage is unavailable")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persistence failure")
	}
}
