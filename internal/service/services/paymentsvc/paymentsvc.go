package paymentsvc

import (
	"context"

	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
)

// orders is the slice of the order service the payment flow needs.
type orders interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
}

// gateway creates hosted-checkout sessions at the payment provider.
type gateway interface {
	CreateSession(ctx context.Context, o *order.Order) (*payment.Session, error)
}

// PaymentService creates hosted-checkout sessions for pending orders.
type PaymentService struct {
	orders  orders
	gateway gateway
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrders sets the order lookup for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrders(o orders) option {
	return func(s *PaymentService) {
		s.orders = o
	}
}

// WithGateway sets the payment gateway client for the PaymentService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGateway(g gateway) option {
	return func(s *PaymentService) {
		s.gateway = g
	}
}

// CreateSession loads the order and opens a hosted-checkout session for its
// total amount. The session token drives the embedded payment widget.
func (s *PaymentService) CreateSession(ctx context.Context, orderID string) (*payment.Session, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.gateway.CreateSession(ctx, o)
}
