package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/warungnusantara/storefront/internal/dal/postgres"
	"github.com/warungnusantara/storefront/internal/service/models/adminuser"
)

// PostgresAdminUserRepository persists admin accounts via pgx.
type PostgresAdminUserRepository struct {
	conn postgres.Querier
}

// NewPostgresAdminUserRepository creates a repository bound to a pool or
// transaction.
func NewPostgresAdminUserRepository(conn postgres.Querier) *PostgresAdminUserRepository {
	return &PostgresAdminUserRepository{
		conn: conn,
	}
}

// Insert stores a new admin user and returns it with its id.
func (r *PostgresAdminUserRepository) Insert(
	ctx context.Context,
	user adminuser.AdminUser,
) (adminuser.AdminUser, error) {
	query, args, err := sq.Insert("admin_users").
		Columns("email", "name", "password_hash", "created_at").
		Values(user.Email, user.Name, user.PasswordHash, time.Now()).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return adminuser.AdminUser{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		return adminuser.AdminUser{}, fmt.Errorf("failed to insert admin user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves an admin account by email.
func (r *PostgresAdminUserRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*adminuser.AdminUser, error) {
	query, args, err := sq.Select("id", "email", "name", "password_hash", "created_at").
		From("admin_users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var user adminuser.AdminUser
	row := r.conn.QueryRow(ctx, query, args...)
	err = row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, adminuser.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	return &user, nil
}
