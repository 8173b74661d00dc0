package iorderitemrepo

import (
	"context"

	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	QueryByOrderIDs(ctx context.Context, orderIDs []string) ([]orderitem.OrderItem, error)
}
