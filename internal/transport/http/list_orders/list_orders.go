package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/warungnusantara/storefront/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

// ListOrders handles the admin order listing request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	filter := order.QueryOrdersModel{}

	if raw := query.Get("status"); raw != "" {
		status, err := order.ParseStatus(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	if raw := query.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			filter.Offset = offset
		}
	}

	orders, err := service.ListOrders(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response for list orders", "error", err)
	}
}
