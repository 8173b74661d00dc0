package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warungnusantara/storefront/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	ApplyManualTransition(ctx context.Context, orderID string, requested order.Status) (*order.Order, error)
}

// updateStatusRequest represents a manual transition request.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Validate validates the manual transition request.
func (r *updateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// UpdateOrderStatus handles the admin manual transition request.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update order status", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for update order status", "error", err)

		return
	}

	requested, err := order.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	updated, err := service.ApplyManualTransition(r.Context(), orderID, requested)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, order.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, order.ErrConflict):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error applying manual transition", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for update order status", "error", err)
	}
}
