package ordersvc

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/warungnusantara/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
	"github.com/warungnusantara/storefront/internal/service/models/outbox"
	"github.com/warungnusantara/storefront/internal/service/models/payment"
)

const testServerKey = "SB-Mid-server-test-key"

// memStore is a shared in-memory backend for the fake repositories. It
// reproduces the conditional-write guards the SQL layer enforces.
type memStore struct {
	orders map[string]*order.Order
	items  map[string][]orderitem.OrderItem
	outbox []outbox.Message
}

func newMemStore() *memStore {
	return &memStore{
		orders: map[string]*order.Order{},
		items:  map[string][]orderitem.OrderItem{},
	}
}

func (s *memStore) Insert(_ context.Context, o order.Order) (order.Order, error) {
	stored := o
	stored.OrderItems = nil
	s.orders[o.ID] = &stored

	return o, nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}

	copied := *o

	return &copied, nil
}

func (s *memStore) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, *o)
	}

	return orders, nil
}

func (s *memStore) ApplyPaymentState(
	_ context.Context,
	id string,
	paymentStatus order.PaymentStatus,
	status order.Status,
	paymentID string,
) (bool, error) {
	o, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	if o.PaymentID != "" && o.PaymentID != paymentID {
		return false, nil
	}
	if paymentStatus != order.PaymentPaid && o.PaymentStatus == order.PaymentPaid {
		return false, nil
	}

	o.PaymentStatus = paymentStatus
	o.Status = status
	o.PaymentID = paymentID

	return true, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, from, to order.Status) (bool, error) {
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to

	return true, nil
}

func (s *memStore) BulkInsert(
	_ context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	for i := range items {
		items[i].ID = int64(i + 1)
		s.items[items[i].OrderID] = append(s.items[items[i].OrderID], items[i])
	}

	return items, nil
}

func (s *memStore) QueryByOrderIDs(
	_ context.Context,
	orderIDs []string,
) ([]orderitem.OrderItem, error) {
	var out []orderitem.OrderItem
	for _, id := range orderIDs {
		out = append(out, s.items[id]...)
	}

	return out, nil
}

func (s *memStore) InsertMessage(_ context.Context, msg outbox.Message) error {
	s.outbox = append(s.outbox, msg)

	return nil
}

type fakeOutboxRepo struct {
	store *memStore
}

func (r *fakeOutboxRepo) Insert(ctx context.Context, msg outbox.Message) error {
	return r.store.InsertMessage(ctx, msg)
}

func (r *fakeOutboxRepo) GetPendingMessages(context.Context, int) ([]outbox.Message, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) Delete(context.Context, int64) error { return nil }

func (r *fakeOutboxRepo) UpdateRetry(
	context.Context, int64, int, string, time.Time,
) error {
	return nil
}

type fakeUOW struct {
	store      *memStore
	committed  bool
	rolledBack bool
}

func (u *fakeUOW) Begin(context.Context) error { return nil }

func (u *fakeUOW) Commit(context.Context) error {
	u.committed = true

	return nil
}

func (u *fakeUOW) Rollback(context.Context) error {
	if !u.committed {
		u.rolledBack = true
	}

	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository { return u.store }

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository { return u.store }

func (u *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &fakeOutboxRepo{store: u.store}
}

type fakeGateway struct {
	serverKey string
	event     *payment.Event
	err       error
}

func (g *fakeGateway) ServerKey() string { return g.serverKey }

func (g *fakeGateway) CheckTransaction(context.Context, string) (*payment.Event, error) {
	return g.event, g.err
}

func newTestService(store *memStore, gw *fakeGateway) *OrderService {
	if gw == nil {
		gw = &fakeGateway{serverKey: testServerKey}
	}

	return MustNewOrderService(
		WithGateway(gw),
		WithUnitOfWorkFactory(func() unitOfWork {
			return &fakeUOW{store: store}
		}),
	)
}

func signEvent(e payment.Event, serverKey string) string {
	sum := sha512.Sum512([]byte(e.OrderID + e.TransactionStatus + "200.00" + serverKey))

	return hex.EncodeToString(sum[:])
}

func signedEvent(orderID, transactionStatus, fraudStatus, transactionID string) payment.Event {
	e := payment.Event{
		OrderID:           orderID,
		TransactionStatus: transactionStatus,
		FraudStatus:       fraudStatus,
		TransactionID:     transactionID,
	}
	e.SignatureKey = signEvent(e, testServerKey)

	return e
}

func seedOrder(store *memStore, id string, status order.Status, paymentStatus order.PaymentStatus) {
	store.orders[id] = &order.Order{
		ID:            id,
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		TotalAmount:   62000,
		Status:        status,
		PaymentStatus: paymentStatus,
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name    string
		order   order.Order
		wantErr error
	}{
		{
			name: "valid_order",
			order: order.Order{
				CustomerName:  "Budi",
				CustomerEmail: "budi@example.com",
				TotalAmount:   62000,
				OrderItems: []orderitem.OrderItem{
					{ProductID: "p1", Quantity: 2, Price: 25000},
					{ProductID: "p2", Quantity: 1, Price: 12000},
				},
			},
		},
		{
			name: "missing_customer_name",
			order: order.Order{
				CustomerEmail: "budi@example.com",
				TotalAmount:   25000,
				OrderItems:    []orderitem.OrderItem{{ProductID: "p1", Quantity: 1, Price: 25000}},
			},
			wantErr: order.ErrMissingFields,
		},
		{
			name: "no_items",
			order: order.Order{
				CustomerName:  "Budi",
				CustomerEmail: "budi@example.com",
			},
			wantErr: order.ErrMissingFields,
		},
		{
			name: "total_mismatch",
			order: order.Order{
				CustomerName:  "Budi",
				CustomerEmail: "budi@example.com",
				TotalAmount:   99999,
				OrderItems: []orderitem.OrderItem{
					{ProductID: "p1", Quantity: 2, Price: 25000},
				},
			},
			wantErr: order.ErrTotalMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store, nil)

			created, err := svc.CreateOrder(context.Background(), tt.order)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateOrder() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(store.orders) != 0 {
					t.Errorf("order persisted despite error %v", tt.wantErr)
				}

				return
			}

			if created.ID == "" {
				t.Error("created order has no id")
			}
			if created.Status != order.StatusPending || created.PaymentStatus != order.PaymentPending {
				t.Errorf("new order state = %s/%s, want pending/pending",
					created.Status, created.PaymentStatus)
			}
			for _, item := range created.OrderItems {
				if item.OrderID != created.ID {
					t.Errorf("item order id = %q, want %q", item.OrderID, created.ID)
				}
			}
			if len(store.outbox) != 1 {
				t.Errorf("outbox messages = %d, want 1", len(store.outbox))
			}
		})
	}
}

func TestReconcilePaymentEventInvalidSignature(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)
	svc := newTestService(store, nil)

	event := payment.Event{
		OrderID:           "order-1",
		TransactionStatus: payment.TransactionSettlement,
		TransactionID:     "tx-1",
		SignatureKey:      signEvent(payment.Event{
			OrderID:           "order-1",
			TransactionStatus: payment.TransactionSettlement,
		}, "wrong-key"),
	}

	err := svc.ReconcilePaymentEvent(context.Background(), event)
	if !errors.Is(err, payment.ErrInvalidSignature) {
		t.Fatalf("ReconcilePaymentEvent() error = %v, want ErrInvalidSignature", err)
	}

	got := store.orders["order-1"]
	if got.Status != order.StatusPending || got.PaymentStatus != order.PaymentPending || got.PaymentID != "" {
		t.Errorf("order mutated by rejected event: %s/%s payment_id=%q",
			got.Status, got.PaymentStatus, got.PaymentID)
	}
	if len(store.outbox) != 0 {
		t.Errorf("outbox messages = %d, want 0", len(store.outbox))
	}
}

func TestReconcilePaymentEventSettlement(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)
	svc := newTestService(store, nil)

	event := signedEvent("order-1", payment.TransactionSettlement, "", "tx-1")
	if err := svc.ReconcilePaymentEvent(context.Background(), event); err != nil {
		t.Fatalf("ReconcilePaymentEvent() error = %v", err)
	}

	got := store.orders["order-1"]
	if got.Status != order.StatusConfirmed || got.PaymentStatus != order.PaymentPaid {
		t.Errorf("order state = %s/%s, want confirmed/paid", got.Status, got.PaymentStatus)
	}
	if got.PaymentID != "tx-1" {
		t.Errorf("payment id = %q, want tx-1", got.PaymentID)
	}
	if len(store.outbox) != 1 {
		t.Errorf("outbox messages = %d, want 1", len(store.outbox))
	}
}

func TestReconcilePaymentEventIdempotent(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)
	svc := newTestService(store, nil)

	event := signedEvent("order-1", payment.TransactionSettlement, "", "tx-1")
	for i := 0; i < 3; i++ {
		if err := svc.ReconcilePaymentEvent(context.Background(), event); err != nil {
			t.Fatalf("delivery %d: ReconcilePaymentEvent() error = %v", i+1, err)
		}
	}

	got := store.orders["order-1"]
	if got.Status != order.StatusConfirmed || got.PaymentStatus != order.PaymentPaid || got.PaymentID != "tx-1" {
		t.Errorf("order state after re-delivery = %s/%s payment_id=%q, want confirmed/paid tx-1",
			got.Status, got.PaymentStatus, got.PaymentID)
	}
}

func TestReconcilePaymentEventPaidIsSticky(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)
	svc := newTestService(store, nil)

	settle := signedEvent("order-1", payment.TransactionSettlement, "", "tx-1")
	if err := svc.ReconcilePaymentEvent(context.Background(), settle); err != nil {
		t.Fatalf("settlement: ReconcilePaymentEvent() error = %v", err)
	}

	// A late expire for the same transaction must not undo the payment.
	expire := signedEvent("order-1", payment.TransactionExpire, "", "tx-1")
	if err := svc.ReconcilePaymentEvent(context.Background(), expire); err != nil {
		t.Fatalf("expire: ReconcilePaymentEvent() error = %v", err)
	}

	got := store.orders["order-1"]
	if got.Status != order.StatusConfirmed || got.PaymentStatus != order.PaymentPaid {
		t.Errorf("order state after late expire = %s/%s, want confirmed/paid",
			got.Status, got.PaymentStatus)
	}
}

func TestReconcilePaymentEventForeignTransaction(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusConfirmed, order.PaymentPaid)
	store.orders["order-1"].PaymentID = "tx-1"
	svc := newTestService(store, nil)

	// A valid notification for a different transaction is acknowledged but
	// never applied.
	event := signedEvent("order-1", payment.TransactionCancel, "", "tx-other")
	if err := svc.ReconcilePaymentEvent(context.Background(), event); err != nil {
		t.Fatalf("ReconcilePaymentEvent() error = %v", err)
	}

	got := store.orders["order-1"]
	if got.PaymentID != "tx-1" || got.PaymentStatus != order.PaymentPaid {
		t.Errorf("order reattributed: payment_id=%q payment_status=%s",
			got.PaymentID, got.PaymentStatus)
	}
	if len(store.outbox) != 0 {
		t.Errorf("outbox messages = %d, want 0", len(store.outbox))
	}
}

func TestReconcilePaymentEventCaptureChallenge(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)
	svc := newTestService(store, nil)

	event := signedEvent("order-1", payment.TransactionCapture, payment.FraudChallenge, "tx-1")
	if err := svc.ReconcilePaymentEvent(context.Background(), event); err != nil {
		t.Fatalf("ReconcilePaymentEvent() error = %v", err)
	}

	got := store.orders["order-1"]
	if got.Status != order.StatusPending || got.PaymentStatus != order.PaymentPending {
		t.Errorf("order state = %s/%s, want pending/pending", got.Status, got.PaymentStatus)
	}
}

func TestReconcilePaymentEventUnknownOrder(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	event := signedEvent("ghost", payment.TransactionSettlement, "", "tx-1")
	if err := svc.ReconcilePaymentEvent(context.Background(), event); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("ReconcilePaymentEvent() error = %v, want ErrNotFound", err)
	}
}

func TestConfirmClientPayment(t *testing.T) {
	tests := []struct {
		name              string
		gatewayStatus     string
		wantStatus        order.Status
		wantPaymentStatus order.PaymentStatus
	}{
		{
			name:              "gateway_confirms_settlement",
			gatewayStatus:     payment.TransactionSettlement,
			wantStatus:        order.StatusConfirmed,
			wantPaymentStatus: order.PaymentPaid,
		},
		{
			name:              "gateway_still_pending",
			gatewayStatus:     payment.TransactionPending,
			wantStatus:        order.StatusPending,
			wantPaymentStatus: order.PaymentPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)

			gw := &fakeGateway{
				serverKey: testServerKey,
				event: &payment.Event{
					OrderID:           "order-1",
					TransactionStatus: tt.gatewayStatus,
					TransactionID:     "tx-1",
				},
			}
			svc := newTestService(store, gw)

			if err := svc.ConfirmClientPayment(context.Background(), "order-1", "tx-1"); err != nil {
				t.Fatalf("ConfirmClientPayment() error = %v", err)
			}

			got := store.orders["order-1"]
			if got.Status != tt.wantStatus || got.PaymentStatus != tt.wantPaymentStatus {
				t.Errorf("order state = %s/%s, want %s/%s",
					got.Status, got.PaymentStatus, tt.wantStatus, tt.wantPaymentStatus)
			}
		})
	}
}

func TestConfirmClientPaymentGatewayError(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "order-1", order.StatusPending, order.PaymentPending)

	gwErr := errors.New("gateway unreachable")
	svc := newTestService(store, &fakeGateway{serverKey: testServerKey, err: gwErr})

	if err := svc.ConfirmClientPayment(context.Background(), "order-1", "tx-1"); !errors.Is(err, gwErr) {
		t.Fatalf("ConfirmClientPayment() error = %v, want %v", err, gwErr)
	}

	got := store.orders["order-1"]
	if got.PaymentStatus != order.PaymentPending {
		t.Errorf("order mutated on gateway error: payment_status=%s", got.PaymentStatus)
	}
}

func TestApplyManualTransition(t *testing.T) {
	tests := []struct {
		name          string
		status        order.Status
		paymentStatus order.PaymentStatus
		to            order.Status
		wantErr       error
	}{
		{
			name:          "confirmed_to_preparing",
			status:        order.StatusConfirmed,
			paymentStatus: order.PaymentPaid,
			to:            order.StatusPreparing,
		},
		{
			name:          "pending_to_completed_rejected",
			status:        order.StatusPending,
			paymentStatus: order.PaymentPaid,
			to:            order.StatusCompleted,
			wantErr:       order.ErrInvalidTransition,
		},
		{
			name:          "confirm_unpaid_rejected",
			status:        order.StatusPending,
			paymentStatus: order.PaymentPending,
			to:            order.StatusConfirmed,
			wantErr:       order.ErrInvalidTransition,
		},
		{
			name:          "cancel_pending",
			status:        order.StatusPending,
			paymentStatus: order.PaymentPending,
			to:            order.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seedOrder(store, "order-1", tt.status, tt.paymentStatus)
			svc := newTestService(store, nil)

			updated, err := svc.ApplyManualTransition(context.Background(), "order-1", tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ApplyManualTransition() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if store.orders["order-1"].Status != tt.status {
					t.Errorf("order mutated despite rejected transition")
				}

				return
			}

			if updated.Status != tt.to {
				t.Errorf("returned status = %s, want %s", updated.Status, tt.to)
			}
			if store.orders["order-1"].Status != tt.to {
				t.Errorf("stored status = %s, want %s", store.orders["order-1"].Status, tt.to)
			}
			if store.orders["order-1"].PaymentStatus != tt.paymentStatus {
				t.Errorf("manual transition touched payment status")
			}
			if len(store.outbox) != 1 {
				t.Errorf("outbox messages = %d, want 1", len(store.outbox))
			}
		})
	}
}

func TestApplyManualTransitionUnknownOrder(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	_, err := svc.ApplyManualTransition(context.Background(), "ghost", order.StatusConfirmed)
	if !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("ApplyManualTransition() error = %v, want ErrNotFound", err)
	}
}

// TestFullLifecycle walks one order from checkout through webhook settlement
// and the kitchen's manual transitions to completion.
func TestFullLifecycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, order.Order{
		CustomerName:  "Siti",
		CustomerEmail: "siti@example.com",
		TotalAmount:   50000,
		OrderItems: []orderitem.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 25000},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	event := signedEvent(created.ID, payment.TransactionSettlement, "", "tx-1")
	if err := svc.ReconcilePaymentEvent(ctx, event); err != nil {
		t.Fatalf("ReconcilePaymentEvent() error = %v", err)
	}

	for _, next := range []order.Status{
		order.StatusPreparing, order.StatusReady, order.StatusCompleted,
	} {
		if _, err := svc.ApplyManualTransition(ctx, created.ID, next); err != nil {
			t.Fatalf("ApplyManualTransition(%s) error = %v", next, err)
		}
	}

	got, err := svc.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if got.Status != order.StatusCompleted || got.PaymentStatus != order.PaymentPaid {
		t.Errorf("final state = %s/%s, want completed/paid", got.Status, got.PaymentStatus)
	}
	if len(got.OrderItems) != 1 {
		t.Errorf("items = %d, want 1", len(got.OrderItems))
	}

	// checkout + settlement + three manual moves
	if len(store.outbox) != 5 {
		t.Errorf("outbox messages = %d, want 5", len(store.outbox))
	}
}

// TestFailedPaymentLifecycle walks an order whose payment expires before the
// customer completes it.
func TestFailedPaymentLifecycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, order.Order{
		CustomerName:  "Siti",
		CustomerEmail: "siti@example.com",
		TotalAmount:   25000,
		OrderItems: []orderitem.OrderItem{
			{ProductID: "p1", Quantity: 1, Price: 25000},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	event := signedEvent(created.ID, payment.TransactionExpire, "", "tx-1")
	if err := svc.ReconcilePaymentEvent(ctx, event); err != nil {
		t.Fatalf("ReconcilePaymentEvent() error = %v", err)
	}

	got := store.orders[created.ID]
	if got.Status != order.StatusCancelled || got.PaymentStatus != order.PaymentFailed {
		t.Errorf("state = %s/%s, want cancelled/failed", got.Status, got.PaymentStatus)
	}

	// The cancelled order is terminal for manual moves too.
	if _, err := svc.ApplyManualTransition(ctx, created.ID, order.StatusConfirmed); !errors.Is(err, order.ErrInvalidTransition) {
		t.Errorf("ApplyManualTransition() on cancelled order error = %v, want ErrInvalidTransition", err)
	}
}
