package getorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warungnusantara/storefront/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
}

// GetOrder handles the order tracking view request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	found, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(found); err != nil {
		slog.Error("Error sending response for get order", "error", err)
	}
}
