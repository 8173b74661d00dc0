package paymentresult

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/warungnusantara/storefront/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	ConfirmClientPayment(ctx context.Context, orderID, transactionID string) error
}

// paymentResultRequest is the outcome reported by the embedded payment
// widget.
type paymentResultRequest struct {
	OrderID       string `json:"orderId"       validate:"required"`
	Result        string `json:"result"        validate:"required,oneof=success pending error"`
	TransactionID string `json:"transactionId"`
}

// Validate validates the payment result request.
func (r *paymentResultRequest) Validate() error {
	return validator.New().Struct(r)
}

// PaymentResult handles the client-reported payment outcome. Only a success
// report triggers a server-side gateway verification; pending and error are
// acknowledged without touching the order, since the webhook stays
// authoritative for those.
func PaymentResult(w http.ResponseWriter, r *http.Request, service service) {
	req := paymentResultRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for payment result", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for payment result", "error", err)

		return
	}

	if req.Result == "success" {
		if err := service.ConfirmClientPayment(r.Context(), req.OrderID, req.TransactionID); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			slog.Error("Error confirming client payment", "order_id", req.OrderID, "error", err)

			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("Error sending response for payment result", "error", err)
	}
}
