package iorderrepo

import (
	"context"

	"github.com/warungnusantara/storefront/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id string) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// ApplyPaymentState performs the idempotent payment write: a single
	// conditional UPDATE that refuses to reattribute payment_id or to
	// downgrade a paid order. Returns false when the guard skipped the write.
	ApplyPaymentState(
		ctx context.Context,
		id string,
		paymentStatus order.PaymentStatus,
		status order.Status,
		paymentID string,
	) (bool, error)

	// UpdateStatus moves the fulfillment status with a compare-and-set on
	// the current value. Returns false when the row was not in `from`.
	UpdateStatus(ctx context.Context, id string, from, to order.Status) (bool, error)
}
