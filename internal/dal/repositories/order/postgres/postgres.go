package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/warungnusantara/storefront/internal/dal/postgres"
	"github.com/warungnusantara/storefront/internal/service/models/order"
	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id            string         `db:"id"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	CustomerPhone sql.NullString `db:"customer_phone"`
	TotalAmount   int64          `db:"total_amount"`
	Status        string         `db:"status"`
	PaymentStatus string         `db:"payment_status"`
	PaymentId     sql.NullString `db:"payment_id"`
	Notes         sql.NullString `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:            o.Id,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone.String,
		TotalAmount:   o.TotalAmount,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentID:     o.PaymentId.String,
		Notes:         o.Notes.String,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		OrderItems:    []orderitem.OrderItem{},
	}, nil
}

var orderColumns = []string{
	"id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"total_amount",
	"status",
	"payment_status",
	"payment_id",
	"notes",
	"created_at",
	"updated_at",
}

// PostgresOrderRepository persists orders via pgx.
type PostgresOrderRepository struct {
	conn postgres.Querier
}

// NewPostgresOrderRepository creates a repository bound to a pool or
// transaction.
func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert stores a new order row.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID,
			o.CustomerName,
			o.CustomerEmail,
			nullable(o.CustomerPhone),
			o.TotalAmount,
			o.Status,
			o.PaymentStatus,
			nullable(o.PaymentID),
			nullable(o.Notes),
			o.CreatedAt,
			o.UpdatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves a single order without its items.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	row := r.conn.QueryRow(ctx, query, args...)
	if err := scanOrder(row, &dal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return dal.ToModel()
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := scanOrder(rows, &dal); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ApplyPaymentState performs the idempotent payment write. The WHERE guards
// mirror the engine's decision so a racing writer cannot reattribute
// payment_id or downgrade an order that has already been paid.
func (r *PostgresOrderRepository) ApplyPaymentState(
	ctx context.Context,
	id string,
	paymentStatus order.PaymentStatus,
	status order.Status,
	paymentID string,
) (bool, error) {
	builder := sq.Update("orders").
		Set("payment_status", paymentStatus).
		Set("status", status).
		Set("payment_id", paymentID).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Where(sq.Or{
			sq.Eq{"payment_id": nil},
			sq.Eq{"payment_id": paymentID},
		}).
		PlaceholderFormat(sq.Dollar)

	// Paid is sticky: only another paid-state write may touch a paid order.
	if paymentStatus != order.PaymentPaid {
		builder = builder.Where(sq.NotEq{"payment_status": order.PaymentPaid})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to apply payment state: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateStatus moves the fulfillment status with a compare-and-set on the
// current value. payment_status and payment_id are left untouched.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from, to order.Status,
) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": from}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanOrder(row pgx.Row, dal *OrderDal) error {
	return row.Scan(
		&dal.Id,
		&dal.CustomerName,
		&dal.CustomerEmail,
		&dal.CustomerPhone,
		&dal.TotalAmount,
		&dal.Status,
		&dal.PaymentStatus,
		&dal.PaymentId,
		&dal.Notes,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
