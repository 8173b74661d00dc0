package postgresrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/warungnusantara/storefront/internal/dal/postgres"
	"github.com/warungnusantara/storefront/internal/service/models/orderitem"
)

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id          int64          `db:"id"`
	OrderId     string         `db:"order_id"`
	ProductId   string         `db:"product_id"`
	ProductName sql.NullString `db:"product_name"`
	Quantity    int            `db:"quantity"`
	Price       int64          `db:"price"`
	CreatedAt   time.Time      `db:"created_at"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (i *OrderItemDal) ToModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ID:          i.Id,
		OrderID:     i.OrderId,
		ProductID:   i.ProductId,
		ProductName: i.ProductName.String,
		Quantity:    i.Quantity,
		Price:       i.Price,
		CreatedAt:   i.CreatedAt,
	}
}

// PostgresOrderItemRepository persists order items via pgx.
type PostgresOrderItemRepository struct {
	conn postgres.Querier
}

// NewPostgresOrderItemRepository creates a repository bound to a pool or
// transaction.
func NewPostgresOrderItemRepository(conn postgres.Querier) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
	}
}

// BulkInsert inserts the items of an order and returns them with ids.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	builder := sq.Insert("order_items").
		Columns("order_id", "product_id", "quantity", "price", "created_at").
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar)

	for _, item := range items {
		builder = builder.Values(
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.Price,
			item.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&items[i].ID); err != nil {
			return nil, fmt.Errorf("failed to scan order item id: %w", err)
		}
		i++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

// QueryByOrderIDs retrieves items for the given orders, with the product
// name joined in for display.
func (r *PostgresOrderItemRepository) QueryByOrderIDs(
	ctx context.Context,
	orderIDs []string,
) ([]orderitem.OrderItem, error) {
	query, args, err := sq.Select(
		"oi.id",
		"oi.order_id",
		"oi.product_id",
		"p.name",
		"oi.quantity",
		"oi.price",
		"oi.created_at",
	).
		From("order_items oi").
		LeftJoin("products p ON p.id = oi.product_id").
		Where(sq.Eq{"oi.order_id": orderIDs}).
		OrderBy("oi.id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.ProductName,
			&dal.Quantity,
			&dal.Price,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
