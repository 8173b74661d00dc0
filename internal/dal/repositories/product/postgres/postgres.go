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
	"github.com/warungnusantara/storefront/internal/service/models/product"
)

// ProductDal represents the product data access layer model.
type ProductDal struct {
	Id          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Price       int64          `db:"price"`
	ImageUrl    sql.NullString `db:"image_url"`
	Category    string         `db:"category"`
	IsAvailable bool           `db:"is_available"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() product.Product {
	return product.Product{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description.String,
		Price:       p.Price,
		ImageURL:    p.ImageUrl.String,
		Category:    p.Category,
		IsAvailable: p.IsAvailable,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

var productColumns = []string{
	"id",
	"name",
	"description",
	"price",
	"image_url",
	"category",
	"is_available",
	"created_at",
	"updated_at",
}

// PostgresProductRepository persists catalog products via pgx.
type PostgresProductRepository struct {
	conn postgres.Querier
}

// NewPostgresProductRepository creates a repository bound to a pool or
// transaction.
func NewPostgresProductRepository(conn postgres.Querier) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// Insert stores a new product.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Insert("products").
		Columns(productColumns...).
		Values(
			p.ID,
			p.Name,
			nullableText(p.Description),
			p.Price,
			nullableText(p.ImageURL),
			p.Category,
			p.IsAvailable,
			p.CreatedAt,
			p.UpdatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return p, nil
}

// Update overwrites a product's mutable fields.
func (r *PostgresProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Update("products").
		Set("name", p.Name).
		Set("description", nullableText(p.Description)).
		Set("price", p.Price).
		Set("image_url", nullableText(p.ImageURL)).
		Set("category", p.Category).
		Set("is_available", p.IsAvailable).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": p.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

// Delete removes a product from the catalog.
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return nil
}

// GetByID retrieves a single product.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal ProductDal
	row := r.conn.QueryRow(ctx, query, args...)
	err = row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.Price,
		&dal.ImageUrl,
		&dal.Category,
		&dal.IsAvailable,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	model := dal.ToModel()

	return &model, nil
}

// List retrieves the whole catalog, newest first.
func (r *PostgresProductRepository) List(ctx context.Context) ([]product.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From("products").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var dal ProductDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.Description,
			&dal.Price,
			&dal.ImageUrl,
			&dal.Category,
			&dal.IsAvailable,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
