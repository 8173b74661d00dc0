package adminuser

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("admin user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AdminUser is an operator account for the admin console.
// PasswordHash never leaves the service layer.
type AdminUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
