package order

import (
	"errors"
	"time"

	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingFields     = errors.New("missing required fields")
	ErrTotalMismatch     = errors.New("total amount does not match order items")
	ErrConflict          = errors.New("order was modified concurrently")
)

// Order represents a customer's checkout transaction.
// Line items are fixed at creation and never re-priced.
type Order struct {
	ID            string                `json:"id"`
	CustomerName  string                `json:"customerName"`
	CustomerEmail string                `json:"customerEmail"`
	CustomerPhone string                `json:"customerPhone,omitempty"`
	TotalAmount   int64                 `json:"totalAmount"`
	Status        Status                `json:"status"`
	PaymentStatus PaymentStatus         `json:"paymentStatus"`
	PaymentID     string                `json:"paymentId,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	OrderItems    []orderitem.OrderItem `json:"orderItems"`
}

// ItemsTotal sums price*quantity over the order's items.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.OrderItems {
		total += item.Price * int64(item.Quantity)
	}

	return total
}
