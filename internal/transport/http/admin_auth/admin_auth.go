package adminauth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/warungnusantara/storefront/internal/service/models/adminuser"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, email, name, password string) (*adminuser.AdminUser, error)
	Login(ctx context.Context, email, password string) (*adminuser.AdminUser, error)
}

// authRequest is a combined register/login request.
type authRequest struct {
	Action   string `json:"action"   validate:"omitempty,oneof=login register"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required_if=Action register"`
}

// Validate validates the auth request.
func (r *authRequest) Validate() error {
	return validator.New().Struct(r)
}

type authResponse struct {
	Message string               `json:"message"`
	Admin   *adminuser.AdminUser `json:"admin"`
}

// Auth handles admin registration and login.
func Auth(w http.ResponseWriter, r *http.Request, service service) {
	req := authRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for admin auth", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for admin auth", "error", err)

		return
	}

	var (
		admin   *adminuser.AdminUser
		message string
		err     error
	)

	if req.Action == "register" {
		admin, err = service.Register(r.Context(), req.Email, req.Name, req.Password)
		message = "registration successful"
	} else {
		admin, err = service.Login(r.Context(), req.Email, req.Password)
		message = "login successful"
	}

	if err != nil {
		switch {
		case errors.Is(err, adminuser.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, adminuser.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error authenticating admin", "email", req.Email, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(authResponse{Message: message, Admin: admin}); err != nil {
		slog.Error("Error sending response for admin auth", "error", err)
	}
}
