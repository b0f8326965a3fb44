package orders

import "github.com/google/uuid"

// CreateOrderInput is the checkout payload after binding.
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       *string
	Items         []OrderItemInput
}

// OrderItemInput references a product by id with a purchase quantity.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}
