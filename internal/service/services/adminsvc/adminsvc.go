package adminsvc

import (
	"context"
	"errors"

	"github.com/warungnusantara/storefront/internal/dal/interfaces/iadminuserrepo"
	"github.com/warungnusantara/storefront/internal/service/models/adminuser"
	"golang.org/x/crypto/bcrypt"
)

// AdminService handles operator registration and login.
type AdminService struct {
	adminRepo iadminuserrepo.IAdminUserRepository
}

// option is a function that configures the AdminService.
type option func(*AdminService)

// MustNewAdminService creates a new AdminService.
func MustNewAdminService(opts ...option) *AdminService {
	s := &AdminService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAdminUserRepository sets the admin user repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAdminUserRepository(repo iadminuserrepo.IAdminUserRepository) option {
	return func(s *AdminService) {
		s.adminRepo = repo
	}
}

// Register creates an operator account with a bcrypt password hash.
func (s *AdminService) Register(
	ctx context.Context,
	email, name, password string,
) (*adminuser.AdminUser, error) {
	_, err := s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, adminuser.ErrEmailTaken
	}
	if !errors.Is(err, adminuser.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.adminRepo.Insert(ctx, adminuser.AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Login verifies the password against the stored hash.
func (s *AdminService) Login(ctx context.Context, email, password string) (*adminuser.AdminUser, error) {
	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, adminuser.ErrNotFound) {
			return nil, adminuser.ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, adminuser.ErrInvalidCredentials
	}

	return user, nil
}
