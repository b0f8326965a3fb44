package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/pkg/db/models"
	"github.com/karunasetu/karuna-backend/pkg/enums"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(
		&models.Celebration{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))

	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewService(conn, logg), conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name, price string) models.Product {
	t.Helper()

	celebration := models.Celebration{Name: name + " celebration"}
	require.NoError(t, conn.Create(&celebration).Error)

	product := models.Product{
		CelebrationID: celebration.ID,
		Name:          name,
		Price:         decimal.RequireFromString(price),
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func validInput(items ...OrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.org",
		CustomerPhone: "+91 98765 43210",
		Items:         items,
	}
}

func TestCreateComputesTotalFromProductRows(t *testing.T) {
	service, conn := newTestService(t)

	diya := seedProduct(t, conn, "Diya Set", "199.00")
	sweets := seedProduct(t, conn, "Sweets Box", "350.50")

	order, err := service.Create(context.Background(), validInput(
		OrderItemInput{ProductID: diya.ID, Quantity: 2},
		OrderItemInput{ProductID: sweets.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("748.50")),
		"got total %s", order.Total)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Diya Set", order.Items[0].Name)
	assert.True(t, order.Items[0].UnitPrice.Equal(diya.Price))
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestCreateSnapshotsPriceAtPurchaseTime(t *testing.T) {
	service, conn := newTestService(t)

	product := seedProduct(t, conn, "Diya Set", "199.00")

	order, err := service.Create(context.Background(), validInput(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	require.NoError(t, err)

	// A later price change leaves the recorded order untouched.
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("999.00")).Error)

	loaded, err := service.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("199.00")))
	assert.True(t, loaded.Total.Equal(decimal.RequireFromString("199.00")))
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), validInput(
		OrderItemInput{ProductID: uuid.New(), Quantity: 1},
	))
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "unknown product")
}

func TestCreateRejectsUnknownProductMidOrderWithoutPersisting(t *testing.T) {
	service, conn := newTestService(t)

	product := seedProduct(t, conn, "Diya Set", "199.00")

	_, err := service.Create(context.Background(), validInput(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
		OrderItemInput{ProductID: uuid.New(), Quantity: 1},
	))
	require.Error(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateValidatesCustomerAndItems(t *testing.T) {
	service, conn := newTestService(t)
	product := seedProduct(t, conn, "Diya Set", "199.00")

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{"missing name", CreateOrderInput{
			CustomerEmail: "asha@example.org",
			CustomerPhone: "+91 98765 43210",
			Items:         []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		}},
		{"missing email", CreateOrderInput{
			CustomerName:  "Asha Rao",
			CustomerPhone: "+91 98765 43210",
			Items:         []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		}},
		{"missing phone", CreateOrderInput{
			CustomerName:  "Asha Rao",
			CustomerEmail: "asha@example.org",
			Items:         []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		}},
		{"no items", validInput()},
		{"zero quantity", validInput(OrderItemInput{ProductID: product.ID, Quantity: 0})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tc.input)
			require.Error(t, err)

			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestConfirmMovesPendingToConfirmed(t *testing.T) {
	service, conn := newTestService(t)
	product := seedProduct(t, conn, "Diya Set", "199.00")

	order, err := service.Create(context.Background(), validInput(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	require.NoError(t, err)

	confirmed, err := service.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, confirmed.Status)

	// Confirming again changes nothing.
	again, err := service.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, again.Status)
}

func TestConfirmDoesNotRollBackLaterStates(t *testing.T) {
	service, conn := newTestService(t)
	product := seedProduct(t, conn, "Diya Set", "199.00")

	order, err := service.Create(context.Background(), validInput(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, conn.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", enums.OrderStatusShipped).Error)

	confirmed, err := service.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, confirmed.Status)
}

func TestConfirmUnknownOrderIsNotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Confirm(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListNewestFirst(t *testing.T) {
	service, conn := newTestService(t)
	product := seedProduct(t, conn, "Diya Set", "199.00")

	for i := 0; i < 2; i++ {
		_, err := service.Create(context.Background(), validInput(
			OrderItemInput{ProductID: product.ID, Quantity: 1},
		))
		require.NoError(t, err)
	}

	listed, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestPaymentURLFor(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "/payment/"+id.String(), PaymentURLFor(id))
}
