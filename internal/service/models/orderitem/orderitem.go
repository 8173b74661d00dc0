package orderitem

import (
	"time"
)

// OrderItem represents a line item within an order. Price and quantity are
// denormalized from the catalog at order creation so later catalog changes
// do not alter historical orders.
type OrderItem struct {
	ID          int64     `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}
