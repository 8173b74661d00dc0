package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/warungnusantara/storefront/internal/dal/postgres"
	"github.com/warungnusantara/storefront/internal/dal/uow"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/outbox"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
)

// Event sources recorded on staged status-change events.
const (
	sourceCheckout = "checkout"
	sourceWebhook  = "webhook"
	sourceClient   = "client"
	sourceAdmin    = "admin"
)

// OrderService owns the order lifecycle: checkout, payment reconciliation
// and manual transitions.
type OrderService struct {
	pgClient   *postgres.Client
	gateway    gateway
	uowFactory func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// gateway is the payment provider surface the engine needs: the shared
// secret for webhook signature checks and the authoritative status lookup.
type gateway interface {
	ServerKey() string
	CheckTransaction(ctx context.Context, orderID string) (*payment.Event, error)
}

func (s *OrderService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithGateway sets the payment gateway client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGateway(g gateway) option {
	return func(s *OrderService) {
		s.gateway = g
	}
}

// WithUnitOfWorkFactory overrides how units of work are created.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// CreateOrder creates an order and its line items in one transaction.
// The order starts in pending/pending; the submitted total must equal the
// sum of its items' price times quantity.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if o.CustomerName == "" || o.CustomerEmail == "" || len(o.OrderItems) == 0 {
		return order.Order{}, order.ErrMissingFields
	}
	if o.TotalAmount != o.ItemsTotal() {
		return order.Order{}, order.ErrTotalMismatch
	}

	now := time.Now()
	o.ID = uuid.NewString()
	o.Status = order.StatusPending
	o.PaymentStatus = order.PaymentPending
	o.CreatedAt = now
	o.UpdatedAt = now

	for i := range o.OrderItems {
		o.OrderItems[i].OrderID = o.ID
		o.OrderItems[i].CreatedAt = now
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	created, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	items, err := work.OrderItemRepository().BulkInsert(ctx, o.OrderItems)
	if err != nil {
		return order.Order{}, err
	}
	created.OrderItems = items

	if err := s.stageStatusEvent(ctx, work, &created, sourceCheckout); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return created, nil
}

// ReconcilePaymentEvent handles an asynchronous gateway webhook. The
// signature is verified before any state is touched; the mapped result is
// then applied idempotently, so re-delivery of the same notification is a
// no-op in effect.
func (s *OrderService) ReconcilePaymentEvent(ctx context.Context, event payment.Event) error {
	if err := event.VerifySignature(s.gateway.ServerKey()); err != nil {
		return err
	}

	return s.applyPaymentEvent(ctx, event, sourceWebhook)
}

// ConfirmClientPayment handles a success report from the in-browser payment
// widget. The client is not trusted: the engine asks the gateway for the
// authoritative transaction status and applies that, so this path converges
// to the same state as the webhook path.
func (s *OrderService) ConfirmClientPayment(ctx context.Context, orderID, transactionID string) error {
	event, err := s.gateway.CheckTransaction(ctx, orderID)
	if err != nil {
		return err
	}

	if transactionID != "" && event.TransactionID != transactionID {
		slog.Warn("client-reported transaction differs from gateway record",
			"order_id", orderID,
			"client_transaction_id", transactionID,
			"gateway_transaction_id", event.TransactionID,
		)
	}

	return s.applyPaymentEvent(ctx, *event, sourceClient)
}

// applyPaymentEvent maps the event and applies the result under the
// idempotency guards: payment_id is never reattributed and a paid order is
// never downgraded by a late failure report.
func (s *OrderService) applyPaymentEvent(ctx context.Context, event payment.Event, source string) error {
	resolution, err := event.Resolve()
	if err != nil {
		return err
	}

	work := s.newUOW()

	existing, err := work.OrderRepository().GetByID(ctx, event.OrderID)
	if err != nil {
		return err
	}

	if existing.PaymentID != "" && event.TransactionID != existing.PaymentID {
		slog.Warn("ignoring payment event for foreign transaction",
			"order_id", event.OrderID,
			"payment_id", existing.PaymentID,
			"event_transaction_id", event.TransactionID,
		)

		return nil
	}

	if existing.PaymentStatus == order.PaymentPaid && resolution.PaymentStatus != order.PaymentPaid {
		slog.Warn("ignoring late failure report for paid order",
			"order_id", event.OrderID,
			"transaction_status", event.TransactionStatus,
		)

		return nil
	}

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	applied, err := work.OrderRepository().ApplyPaymentState(
		ctx,
		event.OrderID,
		resolution.PaymentStatus,
		resolution.Status,
		event.TransactionID,
	)
	if err != nil {
		return err
	}

	if !applied {
		// A concurrent writer already moved the order to an equivalent or
		// stronger state; the write guards make skipping safe.
		slog.Info("payment event skipped by write guard",
			"order_id", event.OrderID,
			"transaction_status", event.TransactionStatus,
		)

		return work.Rollback(ctx)
	}

	updated := *existing
	updated.PaymentStatus = resolution.PaymentStatus
	updated.Status = resolution.Status
	updated.PaymentID = event.TransactionID

	if err := s.stageStatusEvent(ctx, work, &updated, source); err != nil {
		return err
	}

	return work.Commit(ctx)
}

// ApplyManualTransition moves an order's fulfillment status on behalf of an
// admin. Only forward transitions along the fulfillment path are allowed;
// payment fields are left untouched.
func (s *OrderService) ApplyManualTransition(
	ctx context.Context,
	orderID string,
	requested order.Status,
) (*order.Order, error) {
	work := s.newUOW()

	existing, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := existing.ValidateManualTransition(requested); err != nil {
		return nil, err
	}

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	applied, err := work.OrderRepository().UpdateStatus(ctx, orderID, existing.Status, requested)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: status changed while processing", order.ErrConflict)
	}

	updated := *existing
	updated.Status = requested
	updated.UpdatedAt = time.Now()

	if err := s.stageStatusEvent(ctx, work, &updated, sourceAdmin); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return &updated, nil
}

// GetOrder retrieves one order with its items for the tracking view.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	work := s.newUOW()

	found, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().QueryByOrderIDs(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	found.OrderItems = items

	return found, nil
}

// ListOrders retrieves orders with their items based on the filter.
func (s *OrderService) ListOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := work.OrderItemRepository().QueryByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// stageStatusEvent inserts an order.status_changed event into the outbox
// inside the current transaction.
func (s *OrderService) stageStatusEvent(
	ctx context.Context,
	work unitOfWork,
	o *order.Order,
	source string,
) error {
	msg, err := outbox.NewStatusChangedMessage(outbox.StatusChangedEvent{
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentID:     o.PaymentID,
		Source:        source,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		return err
	}

	return work.OutboxRepository().Insert(ctx, msg)
}
