package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	"github.com/karunasetu/karuna-backend/internal/orders"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

type createOrderRequest struct {
	CustomerName  string                   `json:"customerName" validate:"required"`
	CustomerEmail string                   `json:"customerEmail" validate:"required,email"`
	CustomerPhone string                   `json:"customerPhone" validate:"required"`
	Address       *string                  `json:"address,omitempty"`
	Items         []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (req createOrderRequest) toInput() (orders.CreateOrderInput, error) {
	input := orders.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Items:         make([]orders.OrderItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId")
		}
		input.Items = append(input.Items, orders.OrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}
	return input, nil
}

// CreateOrder handles checkout and returns the order with its payment path.
func CreateOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order":      order,
			"paymentUrl": orders.PaymentURLFor(order.ID),
		})
	}
}

// GetOrder returns one order with its items.
func GetOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

// ConfirmOrder marks a pending order confirmed. Repeat confirmations are
// no-ops.
func ConfirmOrder(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Confirm(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

// ListOrders returns every order for the admin dashboard.
func ListOrders(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"orders": all})
	}
}
