package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/warungnusantara/storefront/internal/dal/postgres"
	orderrepo "github.com/warungnusantara/storefront/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/warungnusantara/storefront/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/warungnusantara/storefront/internal/dal/repositories/outbox/postgres"
)

// unitOfWork scopes the order, order item and outbox repositories to a
// single transaction so an order, its items and its staged events become
// visible together or not at all.
type unitOfWork struct {
	client        *postgres.Client
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work over the shared pool. Until Begin is
// called the repositories run outside a transaction.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		client:        client,
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		outboxRepo:    outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin opens a transaction and rebinds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
