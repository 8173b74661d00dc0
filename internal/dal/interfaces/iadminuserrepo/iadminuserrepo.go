package iadminuserrepo

import (
	"context"

	"github.com/warungnusantara/storefront/internal/service/models/adminuser"
)

// IAdminUserRepository is an interface for the admin user postgres repository.
type IAdminUserRepository interface {
	Insert(ctx context.Context, user adminuser.AdminUser) (adminuser.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*adminuser.AdminUser, error)
}
